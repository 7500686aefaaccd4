package domain

import "strings"

// Roles known to the identity service.
const (
	RoleTenant = "tenant"
	RoleAdmin  = "admin"
)

// Identity is a caller verified by the identity service.
type Identity struct {
	ID    string
	Email string
	Role  string
}

// HasRole compares roles case-insensitively.
func (i *Identity) HasRole(role string) bool {
	return i != nil && strings.EqualFold(strings.TrimSpace(i.Role), role)
}
