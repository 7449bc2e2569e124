package domain

import "time"

// Role enumerates the closed set of account roles. A user holds exactly one
// role; this subsystem never changes it.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleSalesperson  Role = "salesperson"
	RoleDesigner     Role = "designer"
	RoleManufacturer Role = "manufacturer"
	RoleCustomer     Role = "customer"
)

// Valid reports whether the role belongs to the closed enumeration.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSalesperson, RoleDesigner, RoleManufacturer, RoleCustomer:
		return true
	}
	return false
}

// User is the domain model for every account in the system; the role decides
// which workflow operations the account may perform.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
