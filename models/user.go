package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserRole represents the role of a user within the platform
type UserRole string

const (
	RoleTenant   UserRole = "tenant"
	RoleLandlord UserRole = "landlord"
	RoleAdmin    UserRole = "admin"
)

// Valid returns true if the role is one of the known roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

// User represents an account that can authenticate against the API.
// Account lifecycle (creation, password management) is owned by the
// user-management service; this API only reads users.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Role      UserRole  `json:"role" db:"role"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new User instance
func NewUser(email, firstName, lastName string, role UserRole) *User {
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Email:     strings.ToLower(email),
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsLandlord returns true if the user has landlord role
func (u *User) IsLandlord() bool {
	return u.Role == RoleLandlord
}

// CanManageProperties returns true if the user can create and modify properties
func (u *User) CanManageProperties() bool {
	return u.Role == RoleAdmin || u.Role == RoleLandlord
}
