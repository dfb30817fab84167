package models

import (
	"time"

	"github.com/google/uuid"
)

// User account states. Registration creates active accounts; pending exists
// for accounts provisioned ahead of activation by an operator.
const (
	UserStatusPending = "pending"
	UserStatusActive  = "active"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Don't return password hash in JSON
	Status       string    `json:"status"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
