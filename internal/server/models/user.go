package models

import "time"

// Role is the coarse authorization level assigned to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the stored credential record. PasswordHash never leaves the
// service layer; handlers work with Identity instead.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated-user value threaded through request
// handling. Deliberately carries no credentials.
type Identity struct {
	ID       string
	Username string
	Role     Role
}

// Identity derives the identity value for an authenticated user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Username: u.Username, Role: u.Role}
}
