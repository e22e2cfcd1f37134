package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleHost   UserRole = "host"
	RoleViewer UserRole = "viewer"
)

func (r UserRole) Valid() bool {
	return r == RoleHost || r == RoleViewer
}

type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
