package auth

import (
	"errors"
	"time"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrWeakPassword       = errors.New("password should be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Identity is what a resolved session grants a handler.
type Identity struct {
	UserID   string  `json:"uid"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	PhotoURL *string `json:"photoURL,omitempty"`
}

type Session struct {
	Token     string
	Identity  Identity
	ExpiresAt time.Time
}

// User is the stored account and profile document.
type User struct {
	ID           string  `gorm:"primaryKey;size:36"`
	Name         string  `gorm:"size:200"`
	Email        string  `gorm:"uniqueIndex;size:320"`
	PasswordHash string  `gorm:"size:100"`
	PhotoURL     *string `gorm:"size:2048"`
	Bio          string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) Identity() Identity {
	return Identity{
		UserID:   u.ID,
		Name:     u.Name,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
	}
}
