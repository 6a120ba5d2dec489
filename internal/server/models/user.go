// Package models holds the persistent data structures of the deposit backend.
package models

import "time"

// User is a registered account. The password is stored only as a bcrypt hash;
// the record is never mutated or deleted after registration.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	FaydaNumber  string
	PhoneNumber  string
	CreatedAt    time.Time
}
