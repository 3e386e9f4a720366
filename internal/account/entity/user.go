package entity

import (
	"strings"
	"time"
)

// UnusablePasswordPrefix marks a password that can never match, used for
// accounts created through OTP login.
const UnusablePasswordPrefix = "!"

type User struct {
	ID        int64
	Phone     string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string // hashed, "!" prefixed when unusable
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasUsablePassword is false for accounts created through OTP login.
func (u User) HasUsablePassword() bool {
	return u.Password != "" && !strings.HasPrefix(u.Password, UnusablePasswordPrefix)
}
