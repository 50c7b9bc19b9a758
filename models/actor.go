package models

import "slices"

// Role is a platform role evaluated by the role collaborator
type Role string

const (
	RoleEarner  Role = "earner"
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// Actor identifies who is performing an operation. It is resolved once per request
// and passed explicitly; nothing in the core caches role state.
type Actor struct {
	UserID string
	Roles  []Role
}

// HasRole reports whether the actor was granted the role when it was resolved
func (a Actor) HasRole(role Role) bool {
	return slices.Contains(a.Roles, role)
}

// IsAdmin is shorthand for HasRole(RoleAdmin)
func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}
