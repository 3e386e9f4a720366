// Package encrypt seals small PII values (national codes) at rest.
package encrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// Encryptor seals and opens values. The associated data binds a ciphertext
// to its owner; opening with different associated data fails.
type Encryptor interface {
	Seal(plaintext, aad []byte) ([]byte, error)
	Open(ciphertext, aad []byte) ([]byte, error)
}

const version byte = 1

var (
	// ErrInvalidKey is returned for keys that are not 32 bytes.
	ErrInvalidKey = errors.New("encrypt: key must be 32 bytes")
	// ErrMalformed is returned for truncated or foreign ciphertexts.
	ErrMalformed = errors.New("encrypt: malformed ciphertext")
	// ErrDecrypt is returned when authentication fails.
	ErrDecrypt = errors.New("encrypt: decrypt failed")
)

// AESGCM is AES-256-GCM with a random nonce.
// Layout: version(1) | nonce(12) | ciphertext+tag.
type AESGCM struct {
	aead cipher.AEAD
}

// NewAESGCM builds an encryptor from a 32 byte key.
func NewAESGCM(key []byte) (*AESGCM, error) {
	if len(key) != 32 {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("encrypt: aes init: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("encrypt: gcm init: %w", err)
	}

	return &AESGCM{aead: aead}, nil
}

func (a *AESGCM) Seal(plaintext, aad []byte) ([]byte, error) {
	ns := a.aead.NonceSize()
	out := make([]byte, 1+ns, 1+ns+len(plaintext)+a.aead.Overhead())
	out[0] = version
	if _, err := rand.Read(out[1:]); err != nil {
		return nil, fmt.Errorf("encrypt: nonce: %w", err)
	}

	return a.aead.Seal(out, out[1:], plaintext, aad), nil
}

func (a *AESGCM) Open(ciphertext, aad []byte) ([]byte, error) {
	ns := a.aead.NonceSize()
	if len(ciphertext) < 1+ns+a.aead.Overhead() || ciphertext[0] != version {
		return nil, ErrMalformed
	}

	plain, err := a.aead.Open(nil, ciphertext[1:1+ns], ciphertext[1+ns:], aad)
	if err != nil {
		return nil, ErrDecrypt
	}

	return plain, nil
}
