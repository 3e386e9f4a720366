// Package hash hashes secrets and verifies plaintext against stored hashes.
package hash

// Hash produces a one-way representation of a secret and checks candidates
// against it.
type Hash interface {
	Hash(plaintext string) ([]byte, error)
	Verify(hashed, plaintext string) bool
}
