package models

import "time"

// UserRole enumerates the roles recognised by the system.
type UserRole string

const (
	RoleAdmin        UserRole = "admin"
	RoleTeacher      UserRole = "teacher"
	RoleStudent      UserRole = "student"
	RoleLibraryAdmin UserRole = "library_admin"
)

// User is an account record persisted in the users collection.
// Identifier is the login handle and is unique across the collection;
// Password is stored as provided and must be stripped from every API result.
type User struct {
	ID         string    `json:"id"`
	Identifier string    `json:"identifier"`
	Name       string    `json:"name"`
	Password   string    `json:"password,omitempty"`
	Role       UserRole  `json:"role"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Sanitized returns a copy of the user without credentials.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// SanitizeUsers strips credentials from a list of users.
func SanitizeUsers(users []User) []User {
	out := make([]User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out
}
