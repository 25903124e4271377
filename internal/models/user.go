package models

import "time"

// User represents a user account in the system.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Name         string    `json:"name,omitempty"`
	Email        string    `json:"email,omitempty"`
	IsActive     bool      `json:"isActive"`
	IsAdmin      bool      `json:"isAdmin"`
	DateJoined   time.Time `json:"dateJoined"`
	DateModified time.Time `json:"dateModified"`
}

// IsStaff reports elevated permission; every admin is staff.
func (u User) IsStaff() bool {
	return u.IsAdmin
}

// DisplayName is the name shown next to posts.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

func (u User) String() string {
	return u.Name + " | " + u.Username
}
