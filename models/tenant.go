package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// TenantStatus represents where a tenant is in their tenancy lifecycle
type TenantStatus string

const (
	TenantStatusPending TenantStatus = "pending"
	TenantStatusActive  TenantStatus = "active"
	TenantStatusFormer  TenantStatus = "former"
)

// Valid returns true if the status is one of the known statuses
func (s TenantStatus) Valid() bool {
	switch s {
	case TenantStatusPending, TenantStatusActive, TenantStatusFormer:
		return true
	}
	return false
}

// Tenant represents an occupant record managed by a landlord.
// PropertyID is nil while the tenant is not assigned to a property.
type Tenant struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	PropertyID  *uuid.UUID   `json:"property_id,omitempty" db:"property_id"`
	FirstName   string       `json:"first_name" db:"first_name"`
	LastName    string       `json:"last_name" db:"last_name"`
	Email       string       `json:"email" db:"email"`
	Phone       string       `json:"phone,omitempty" db:"phone"`
	Status      TenantStatus `json:"status" db:"status"`
	LeaseStart  *time.Time   `json:"lease_start,omitempty" db:"lease_start"`
	LeaseEnd    *time.Time   `json:"lease_end,omitempty" db:"lease_end"`
	MonthlyRent int64        `json:"monthly_rent" db:"monthly_rent"`
	Notes       string       `json:"notes,omitempty" db:"notes"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a new unassigned Tenant in the pending state
func NewTenant(firstName, lastName, email string) *Tenant {
	now := time.Now()
	return &Tenant{
		ID:        uuid.New(),
		FirstName: firstName,
		LastName:  lastName,
		Email:     strings.ToLower(email),
		Status:    TenantStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FullName returns the tenant's display name
func (t *Tenant) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

// Assigned returns true if the tenant is linked to a property
func (t *Tenant) Assigned() bool {
	return t.PropertyID != nil
}

// IsActive returns true if the tenancy is currently active
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// LeaseCovers returns true if the lease window contains the given time.
// A missing lease start or end means the window is open on that side.
func (t *Tenant) LeaseCovers(at time.Time) bool {
	if t.LeaseStart != nil && at.Before(*t.LeaseStart) {
		return false
	}
	if t.LeaseEnd != nil && at.After(*t.LeaseEnd) {
		return false
	}
	return true
}
