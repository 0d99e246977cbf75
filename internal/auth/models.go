// Package auth owns user accounts, the registration opt-in flow and access
// tokens. It is deliberately thin: the registry's interesting logic lives in
// the dataset and scoring packages.
package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is a registry account. Reviewers may edit and delete any dataset;
// everyone else only their own.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Role         string    `json:"role,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// OptIn is a pending registration confirmation key. It is burned on first
// successful confirmation.
type OptIn struct {
	Username string
	Key      string
}
