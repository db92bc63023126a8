package model

// Roles a user can hold inside a store.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// ValidRole reports whether r is a known role code.
func ValidRole(r string) bool {
	return r == RoleOwner || r == RoleStaff
}
