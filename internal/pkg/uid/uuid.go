package uid

import "github.com/google/uuid"

// UUID generates version 7 UUID strings, falling back to version 4 when the
// time based variant cannot be produced.
type UUID struct{}

func NewUUID() *UUID {
	return &UUID{}
}

func (u *UUID) Generate() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
