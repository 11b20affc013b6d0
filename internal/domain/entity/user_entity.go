package entity

import (
	"time"
)

// User is the aggregate root for the account domain. Password holds a bcrypt
// hash, never the plaintext. Email uniqueness is enforced by the persistence
// layer.
type User struct {
	ID        string
	Email     string
	Password  string
	FirstName string
	LastName  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
