package domain

import (
	"time"
)

type Member struct {
	ID            string    `json:"id"`
	PasswordHash  string    `json:"-"`
	Name          string    `json:"name"`
	StatusMessage string    `json:"status_message"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Caller - аутентифицированный участник текущего запроса
type Caller struct {
	ID        string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == RoleAdmin
}
