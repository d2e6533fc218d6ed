package auth

import (
	"time"

	"github.com/google/uuid"
)

const RoleAdmin = "admin"

// User is an account allowed to sign in. Users come from configuration and
// are never created or removed at runtime.
type User struct {
	ID           int
	CPF          string
	PasswordHash string
	Name         string
	Email        string
	Role         string
}

// PublicUser is the part of a User that is safe to return to clients.
type PublicUser struct {
	ID    int    `json:"id"`
	CPF   string `json:"cpf"`
	Name  string `json:"nome"`
	Email string `json:"email"`
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, CPF: u.CPF, Name: u.Name, Email: u.Email}
}

// Session is the server-side record of an issued token. The token itself is
// never stored, only its SHA-256. SessionID identifies the session in logs.
type Session struct {
	SessionID uuid.UUID
	TokenHash string
	UserID    int
	IssuedAt  time.Time
	ExpiresAt time.Time
}
