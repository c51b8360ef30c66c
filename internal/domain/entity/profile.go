package entity

import "time"

// Profile is an actor's identity record. Role and the admin flags are the
// capability source for the role gate; they are read from storage, never
// trusted from client input.
type Profile struct {
	ID           string    `json:"id"`
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role"`
	IsAdmin      bool      `json:"is_admin"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Executive board roles recognized by the role gate. Other role strings are
// plain members.
const (
	RoleSecretary = "secretary"
	RoleDirector  = "director"
)
