// Package entity contains the core business objects of the project.
package entity

// Role represents the capability level attached to a user's profile.
// The set is closed: routes declare the exact role they require and there is
// no inheritance between roles.
type Role string

const (
	// RoleAdmin grants access to catalog management.
	RoleAdmin Role = "admin"
	// RoleUser indicates a regular shopper account.
	RoleUser Role = "user"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the Role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}
