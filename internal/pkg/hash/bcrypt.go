package hash

import "golang.org/x/crypto/bcrypt"

// Bcrypt hashes passwords with bcrypt. The pepper is appended to every
// plaintext and must stay out of the database.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt returns a Bcrypt hasher; a cost outside bcrypt's range falls back to
// bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plaintext+h.pepper), h.cost)
}

func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext+h.pepper)) == nil
}
