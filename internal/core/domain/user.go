package domain

import (
	"errors"
	"time"
)

// Role is the closed set of roles a principal can hold.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWorker Role = "worker"
	RoleUser   Role = "user"
	RoleGuest  Role = "guest"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakPassword       = errors.New("password too short")
)

// Valid reports whether r belongs to the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWorker, RoleUser, RoleGuest:
		return true
	}
	return false
}

// RoleSet is an explicit, unordered list of roles allowed to run an operation.
// Membership is literal: no role implies another.
type RoleSet []Role

// Contains reports whether r is listed in the set.
func (s RoleSet) Contains(r Role) bool {
	for _, allowed := range s {
		if allowed == r {
			return true
		}
	}
	return false
}

// Principal is the authenticated identity attached to a request.
type Principal struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// User is a stored account.
type User struct {
	ID           string    `json:"uid" bson:"_id"`
	Username     string    `json:"username" bson:"username"`
	FullName     string    `json:"full_name" bson:"full_name"`
	Role         Role      `json:"role" bson:"role"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Principal returns the identity view of the account.
func (u *User) Principal() *Principal {
	return &Principal{ID: u.ID, Username: u.Username, Role: u.Role}
}
