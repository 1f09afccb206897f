package organization

import (
	"context"

	"github.com/wms/backend/internal/domain/shared"
)

// Role is the access level of a user
type Role string

const (
	RoleUser    Role = "user"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// CanApprove reports whether the role may decide on requisitions
func (r Role) CanApprove() bool {
	return r == RoleManager || r == RoleAdmin
}

// Department groups stores
type Department struct {
	shared.BaseEntity
	Code        string
	Name        string
	Description string
	IsActive    bool
}

// Store is a physical stock location
type Store struct {
	shared.BaseEntity
	DepartmentID int64
	Code         string
	Name         string
	Description  string
	IsActive     bool
}

// User is an account that requests, approves or receives goods
type User struct {
	shared.BaseEntity
	Username     string
	FullName     string
	Email        string
	Role         Role
	DepartmentID *int64
	StoreID      *int64
	IsActive     bool
}

// DisplayName returns the full name, falling back to the username
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// StoreRepository provides read access to stores
type StoreRepository interface {
	FindByID(ctx context.Context, id int64) (*Store, error)
	FindAllActive(ctx context.Context) ([]Store, error)
}

// UserRepository provides read access to users
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	// FindByStoreAndRoles lists active users of a store holding one of the roles.
	// Admins without a store are included when RoleAdmin is requested.
	FindByStoreAndRoles(ctx context.Context, storeID int64, roles ...Role) ([]User, error)
}
