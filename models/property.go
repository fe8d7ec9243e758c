package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyType categorises a listing
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeFlat      PropertyType = "flat"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeStudio    PropertyType = "studio"
	PropertyTypeBungalow  PropertyType = "bungalow"
)

// Valid returns true if the property type is one of the known types
func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeHouse, PropertyTypeFlat, PropertyTypeApartment, PropertyTypeStudio, PropertyTypeBungalow:
		return true
	}
	return false
}

// PropertyStatus represents the occupancy state of a property
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusOccupied    PropertyStatus = "occupied"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
)

// Valid returns true if the status is one of the known statuses
func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusOccupied, PropertyStatusMaintenance:
		return true
	}
	return false
}

// Property represents a rental listing owned by a landlord.
// MonthlyRent is stored in pence to avoid floating point drift.
type Property struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	LandlordID   uuid.UUID      `json:"landlord_id" db:"landlord_id"`
	Title        string         `json:"title" db:"title"`
	Description  string         `json:"description,omitempty" db:"description"`
	AddressLine1 string         `json:"address_line1" db:"address_line1"`
	AddressLine2 string         `json:"address_line2,omitempty" db:"address_line2"`
	City         string         `json:"city" db:"city"`
	Postcode     string         `json:"postcode" db:"postcode"`
	PropertyType PropertyType   `json:"property_type" db:"property_type"`
	Bedrooms     int            `json:"bedrooms" db:"bedrooms"`
	Bathrooms    int            `json:"bathrooms" db:"bathrooms"`
	MonthlyRent  int64          `json:"monthly_rent" db:"monthly_rent"`
	Status       PropertyStatus `json:"status" db:"status"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" db:"updated_at"`
}

// TableName returns the table name for the Property model
func (Property) TableName() string {
	return "properties"
}

// NewProperty creates a new Property instance in the available state
func NewProperty(landlordID uuid.UUID, title, addressLine1, city, postcode string, propertyType PropertyType) *Property {
	now := time.Now()
	return &Property{
		ID:           uuid.New(),
		LandlordID:   landlordID,
		Title:        title,
		AddressLine1: addressLine1,
		City:         city,
		Postcode:     postcode,
		PropertyType: propertyType,
		Status:       PropertyStatusAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAvailable returns true if the property can accept a new tenant
func (p *Property) IsAvailable() bool {
	return p.Status == PropertyStatusAvailable
}

// OwnedBy returns true if the given user is the property's landlord
func (p *Property) OwnedBy(userID uuid.UUID) bool {
	return p.LandlordID == userID
}
