// Package otp generates numeric one-time codes.
//
// Codes are HOTP values (RFC 4226) computed over a secret and counter drawn
// from crypto/rand on every call, so no two calls share state and a code is
// only as guessable as its digit count.
package otp

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

const secretSize = 20

// Generator produces fresh one-time codes.
type Generator interface {
	Generate() (string, error)
}

// HOTP implements Generator.
type HOTP struct {
	digits otp.Digits
	rand   io.Reader
}

// NewHOTP returns a generator of codes with the given number of digits. Only 6
// and 8 are supported; anything else falls back to 6.
func NewHOTP(digits int) *HOTP {
	d := otp.DigitsSix
	if digits == int(otp.DigitsEight) {
		d = otp.DigitsEight
	}
	return &HOTP{digits: d, rand: rand.Reader}
}

// Length returns the number of digits in generated codes.
func (g *HOTP) Length() int {
	return g.digits.Length()
}

// Generate returns a new code.
func (g *HOTP) Generate() (string, error) {
	buf := make([]byte, secretSize+8)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", fmt.Errorf("otp: read entropy: %w", err)
	}

	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf[:secretSize])
	counter := binary.BigEndian.Uint64(buf[secretSize:])

	return hotp.GenerateCodeCustom(secret, counter, hotp.ValidateOpts{
		Digits:    g.digits,
		Algorithm: otp.AlgorithmSHA1,
	})
}
