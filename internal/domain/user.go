package domain

import "time"

// Role enumerates the access levels a signed-in account can hold.
type Role string

const (
	RoleUser       Role = "user"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// ValidRole reports whether the value is one of the three known roles.
func ValidRole(role Role) bool {
	switch role {
	case RoleUser, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// User is the persisted record for an authenticated account. The ID is the
// stable identity key issued by the external identity provider.
type User struct {
	ID          string
	Email       string
	DisplayName string
	PhotoURL    *string
	Role        Role
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
