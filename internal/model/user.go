package model

import (
	"fmt"
	"time"
)

// StartingPoints is the balance every new account receives.
const StartingPoints = 100

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// User is a registered marketplace member.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Points       int       `json:"points"`
	IsAdmin      bool      `json:"is_admin"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the public view of a user returned by the auth endpoints.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the user's public profile.
func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		Points:    u.Points,
		CreatedAt: u.CreatedAt,
	}
}

// ValidatePassword checks the password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}
