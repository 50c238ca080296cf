package models

import "time"

type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// AuthUser is the identity handed to callers after a session lookup or
// sign-in. IsAdmin is computed from the configured admin email, never stored.
type AuthUser struct {
	ID      string
	Email   string
	IsAdmin bool
}
