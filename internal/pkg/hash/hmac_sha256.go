package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// MinHMACKeyLen is the shortest secret NewHMACSHA256 accepts.
const MinHMACKeyLen = 32

// ErrShortKey is returned for HMAC secrets shorter than MinHMACKeyLen.
var ErrShortKey = errors.New("hash: hmac secret must be at least 32 bytes")

// HMACSHA256 keys short lived secrets, such as OTP codes, so they can be stored
// and compared without keeping the plaintext. The output is hex encoded.
type HMACSHA256 struct {
	secret []byte
}

func NewHMACSHA256(secret []byte) (*HMACSHA256, error) {
	if len(secret) < MinHMACKeyLen {
		return nil, ErrShortKey
	}
	return &HMACSHA256{secret: secret}, nil
}

func (s *HMACSHA256) Hash(plaintext string) ([]byte, error) {
	return s.sum(plaintext), nil
}

func (s *HMACSHA256) Verify(hashed, plaintext string) bool {
	return hmac.Equal([]byte(hashed), s.sum(plaintext))
}

func (s *HMACSHA256) sum(plaintext string) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(plaintext))
	return hex.AppendEncode(nil, mac.Sum(nil))
}
