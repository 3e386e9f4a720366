package uid

import (
	"crypto/rand"
	"encoding/base64"
)

// Token generates unguessable URL safe strings carrying 256 bits of entropy,
// suitable for session ids.
type Token struct{}

func NewToken() *Token {
	return &Token{}
}

// Generate panics only when the operating system entropy source fails, in
// which case no secure token can be produced at all.
func (Token) Generate() string {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("uid: crypto/rand failed: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(b[:])
}
