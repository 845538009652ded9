package model

import (
	"fmt"
	"time"
)

// Role is the coarse permission level of an account.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// ParseRole converts a stored or claimed role string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Status is the lifecycle state of an account. There are no intermediate states.
type Status string

const (
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
)

// ParseStatus converts a client supplied status into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, StatusBlocked:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// User represents an account in the directory
type User struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never part of any response
	Role         Role       `json:"role"`
	Status       Status     `json:"status"`
	RegisteredAt time.Time  `json:"registration_time"`
	LastLoginAt  *time.Time `json:"last_login"`
}

// IsBlocked reports whether the account may not authenticate.
func (u *User) IsBlocked() bool {
	return u.Status == StatusBlocked
}

// UserSummary is what remains visible about an account after it has been removed.
type UserSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Summary returns the id/name/email triple of the account.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email}
}

// RegisterRequest is the body of POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// StatusRequest is the body of PUT /users/:id/status
type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// BulkRequest carries the target ids of a bulk operation.
type BulkRequest struct {
	IDs []int `json:"ids" binding:"required"`
}
