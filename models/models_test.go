package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// User tests
func TestNewUser(t *testing.T) {
	email := "Jane.Doe@Example.com"
	firstName := "Jane"
	lastName := "Doe"
	role := RoleLandlord

	user := NewUser(email, firstName, lastName, role)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "jane.doe@example.com", user.Email)
	assert.Equal(t, firstName, user.FirstName)
	assert.Equal(t, lastName, user.LastName)
	assert.Equal(t, role, user.Role)
	assert.True(t, user.Active)
	assert.False(t, user.CreatedAt.IsZero())
	assert.False(t, user.UpdatedAt.IsZero())
	assert.Equal(t, user.CreatedAt, user.UpdatedAt)
}

func TestUser_TableName(t *testing.T) {
	user := User{}
	assert.Equal(t, "users", user.TableName())
}

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name      string
		firstName string
		lastName  string
		want      string
	}{
		{"both names", "Jane", "Doe", "Jane Doe"},
		{"first only", "Jane", "", "Jane"},
		{"last only", "", "Doe", "Doe"},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{FirstName: tt.firstName, LastName: tt.lastName}
			assert.Equal(t, tt.want, user.FullName())
		})
	}
}

func TestUser_IsAdmin(t *testing.T) {
	tests := []struct {
		name string
		role UserRole
		want bool
	}{
		{"admin", RoleAdmin, true},
		{"landlord", RoleLandlord, false},
		{"tenant", RoleTenant, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			assert.Equal(t, tt.want, user.IsAdmin())
		})
	}
}

func TestUser_CanManageProperties(t *testing.T) {
	tests := []struct {
		name string
		role UserRole
		want bool
	}{
		{"admin", RoleAdmin, true},
		{"landlord", RoleLandlord, true},
		{"tenant", RoleTenant, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user := &User{Role: tt.role}
			assert.Equal(t, tt.want, user.CanManageProperties())
		})
	}
}

func TestUserRole_Valid(t *testing.T) {
	tests := []struct {
		name string
		role UserRole
		want bool
	}{
		{"tenant", RoleTenant, true},
		{"landlord", RoleLandlord, true},
		{"admin", RoleAdmin, true},
		{"unknown", UserRole("superuser"), false},
		{"empty", UserRole(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Valid())
		})
	}
}

// Property tests
func TestNewProperty(t *testing.T) {
	landlordID := uuid.New()
	title := "Two bed flat near the station"

	property := NewProperty(landlordID, title, "12 Station Road", "Manchester", "M1 2AB", PropertyTypeFlat)

	assert.NotEqual(t, uuid.Nil, property.ID)
	assert.Equal(t, landlordID, property.LandlordID)
	assert.Equal(t, title, property.Title)
	assert.Equal(t, "12 Station Road", property.AddressLine1)
	assert.Equal(t, "Manchester", property.City)
	assert.Equal(t, "M1 2AB", property.Postcode)
	assert.Equal(t, PropertyTypeFlat, property.PropertyType)
	assert.Equal(t, PropertyStatusAvailable, property.Status)
	assert.False(t, property.CreatedAt.IsZero())
	assert.False(t, property.UpdatedAt.IsZero())
}

func TestProperty_TableName(t *testing.T) {
	property := Property{}
	assert.Equal(t, "properties", property.TableName())
}

func TestProperty_IsAvailable(t *testing.T) {
	tests := []struct {
		name   string
		status PropertyStatus
		want   bool
	}{
		{"available", PropertyStatusAvailable, true},
		{"occupied", PropertyStatusOccupied, false},
		{"maintenance", PropertyStatusMaintenance, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			property := &Property{Status: tt.status}
			assert.Equal(t, tt.want, property.IsAvailable())
		})
	}
}

func TestProperty_OwnedBy(t *testing.T) {
	landlordID := uuid.New()
	property := &Property{LandlordID: landlordID}

	assert.True(t, property.OwnedBy(landlordID))
	assert.False(t, property.OwnedBy(uuid.New()))
}

func TestPropertyType_Valid(t *testing.T) {
	tests := []struct {
		name         string
		propertyType PropertyType
		want         bool
	}{
		{"house", PropertyTypeHouse, true},
		{"flat", PropertyTypeFlat, true},
		{"apartment", PropertyTypeApartment, true},
		{"studio", PropertyTypeStudio, true},
		{"bungalow", PropertyTypeBungalow, true},
		{"unknown", PropertyType("castle"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.propertyType.Valid())
		})
	}
}

func TestPropertyStatus_Valid(t *testing.T) {
	tests := []struct {
		name   string
		status PropertyStatus
		want   bool
	}{
		{"available", PropertyStatusAvailable, true},
		{"occupied", PropertyStatusOccupied, true},
		{"maintenance", PropertyStatusMaintenance, true},
		{"unknown", PropertyStatus("condemned"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestProperty_JSONMarshaling(t *testing.T) {
	property := Property{
		ID:           uuid.New(),
		LandlordID:   uuid.New(),
		Title:        "Test",
		AddressLine1: "1 Test Street",
		City:         "Leeds",
		Postcode:     "LS1 1AA",
		PropertyType: PropertyTypeHouse,
		MonthlyRent:  95000,
		Status:       PropertyStatusAvailable,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	data, err := json.Marshal(property)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"monthly_rent":95000`)
	assert.Contains(t, string(data), `"property_type":"house"`)
	// Empty optional fields are omitted
	assert.NotContains(t, string(data), "address_line2")
	assert.NotContains(t, string(data), "description")
}

// Tenant tests
func TestNewTenant(t *testing.T) {
	tenant := NewTenant("Sam", "Patel", "Sam.Patel@Example.com")

	assert.NotEqual(t, uuid.Nil, tenant.ID)
	assert.Nil(t, tenant.PropertyID)
	assert.Equal(t, "Sam", tenant.FirstName)
	assert.Equal(t, "Patel", tenant.LastName)
	assert.Equal(t, "sam.patel@example.com", tenant.Email)
	assert.Equal(t, TenantStatusPending, tenant.Status)
	assert.False(t, tenant.CreatedAt.IsZero())
	assert.False(t, tenant.UpdatedAt.IsZero())
}

func TestTenant_TableName(t *testing.T) {
	tenant := Tenant{}
	assert.Equal(t, "tenants", tenant.TableName())
}

func TestTenant_Assigned(t *testing.T) {
	tenant := NewTenant("Sam", "Patel", "sam@example.com")
	assert.False(t, tenant.Assigned())

	propertyID := uuid.New()
	tenant.PropertyID = &propertyID
	assert.True(t, tenant.Assigned())
}

func TestTenant_IsActive(t *testing.T) {
	tests := []struct {
		name   string
		status TenantStatus
		want   bool
	}{
		{"active", TenantStatusActive, true},
		{"pending", TenantStatusPending, false},
		{"former", TenantStatusFormer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant := &Tenant{Status: tt.status}
			assert.Equal(t, tt.want, tenant.IsActive())
		})
	}
}

func TestTenantStatus_Valid(t *testing.T) {
	tests := []struct {
		name   string
		status TenantStatus
		want   bool
	}{
		{"pending", TenantStatusPending, true},
		{"active", TenantStatusActive, true},
		{"former", TenantStatusFormer, true},
		{"unknown", TenantStatus("evicted"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.Valid())
		})
	}
}

func TestTenant_LeaseCovers(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		leaseStart *time.Time
		leaseEnd   *time.Time
		at         time.Time
		want       bool
	}{
		{"inside window", &start, &end, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"before start", &start, &end, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), false},
		{"after end", &start, &end, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), false},
		{"open start", nil, &end, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"open end", &start, nil, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{"no window", nil, nil, time.Now(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tenant := &Tenant{LeaseStart: tt.leaseStart, LeaseEnd: tt.leaseEnd}
			assert.Equal(t, tt.want, tenant.LeaseCovers(tt.at))
		})
	}
}

func TestTenant_JSONMarshaling(t *testing.T) {
	tenant := NewTenant("Sam", "Patel", "sam@example.com")

	data, err := json.Marshal(tenant)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"status":"pending"`)
	// Unassigned tenants omit the property reference
	assert.NotContains(t, string(data), "property_id")
	assert.NotContains(t, string(data), "lease_start")
}
