package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AryanKumar02/EstateLink/models"
	"github.com/AryanKumar02/EstateLink/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PropertyInput carries the caller-supplied fields for creating or updating
// a property. LandlordID is only honoured on create, and only for admins
// registering a property on behalf of another landlord.
type PropertyInput struct {
	LandlordID   *uuid.UUID
	Title        string
	Description  string
	AddressLine1 string
	AddressLine2 string
	City         string
	Postcode     string
	PropertyType models.PropertyType
	Bedrooms     int
	Bathrooms    int
	MonthlyRent  int64
	Status       *models.PropertyStatus
}

// PropertyService handles property management and ownership rules
type PropertyService struct {
	users      repositories.UserRepository
	properties repositories.PropertyRepository
	tenants    repositories.TenantRepository
	txManager  repositories.TransactionManager
	logger     *zap.Logger
}

// NewPropertyService creates a new PropertyService instance
func NewPropertyService(
	users repositories.UserRepository,
	properties repositories.PropertyRepository,
	tenants repositories.TenantRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *PropertyService {
	return &PropertyService{
		users:      users,
		properties: properties,
		tenants:    tenants,
		txManager:  txManager,
		logger:     logger,
	}
}

// Create registers a new property. Landlords always create properties they
// own; an admin may name another landlord via in.LandlordID.
func (s *PropertyService) Create(ctx context.Context, actor *models.User, in PropertyInput) (*models.Property, error) {
	landlordID := actor.ID
	if in.LandlordID != nil && *in.LandlordID != actor.ID {
		if !actor.IsAdmin() {
			return nil, ErrNotOwner
		}

		landlord, err := s.users.GetByID(ctx, *in.LandlordID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, WrapInternal("failed to look up landlord", err)
		}
		if !landlord.CanManageProperties() {
			return nil, NewDomainError(ErrorTypeValidation, "named user cannot own properties", nil).
				WithDetail("landlord_id", landlord.ID.String())
		}
		landlordID = landlord.ID
	}

	if !in.PropertyType.Valid() {
		return nil, NewDomainError(ErrorTypeValidation, "unknown property type", nil).
			WithDetail("property_type", string(in.PropertyType))
	}

	property := models.NewProperty(landlordID, in.Title, in.AddressLine1, in.City, in.Postcode, in.PropertyType)
	property.Description = in.Description
	property.AddressLine2 = in.AddressLine2
	property.Bedrooms = in.Bedrooms
	property.Bathrooms = in.Bathrooms
	property.MonthlyRent = in.MonthlyRent
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, NewDomainError(ErrorTypeValidation, "unknown property status", nil).
				WithDetail("status", string(*in.Status))
		}
		property.Status = *in.Status
	}

	if err := s.properties.Create(ctx, property); err != nil {
		return nil, WrapInternal("failed to create property", err)
	}

	s.logger.Info("property created",
		zap.String("property_id", property.ID.String()),
		zap.String("landlord_id", landlordID.String()),
		zap.String("actor_id", actor.ID.String()))

	return property, nil
}

// Get retrieves a single property by ID
func (s *PropertyService) Get(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, WrapInternal("failed to fetch property", err)
	}
	return property, nil
}

// List retrieves properties matching the filter along with the total match
// count. Page size is clamped to keep result sets bounded.
func (s *PropertyService) List(ctx context.Context, filter repositories.PropertyFilter) ([]*models.Property, int, error) {
	filter.Limit, filter.Offset = ClampPage(filter.Limit, filter.Offset)

	properties, total, err := s.properties.List(ctx, filter)
	if err != nil {
		return nil, 0, WrapInternal("failed to list properties", err)
	}
	return properties, total, nil
}

// Update replaces the mutable fields of a property. Landlords may only
// update their own properties; admins may update any.
func (s *PropertyService) Update(ctx context.Context, actor *models.User, id uuid.UUID, in PropertyInput) (*models.Property, error) {
	property, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && !property.OwnedBy(actor.ID) {
		return nil, ErrNotOwner
	}

	if !in.PropertyType.Valid() {
		return nil, NewDomainError(ErrorTypeValidation, "unknown property type", nil).
			WithDetail("property_type", string(in.PropertyType))
	}

	property.Title = in.Title
	property.Description = in.Description
	property.AddressLine1 = in.AddressLine1
	property.AddressLine2 = in.AddressLine2
	property.City = in.City
	property.Postcode = in.Postcode
	property.PropertyType = in.PropertyType
	property.Bedrooms = in.Bedrooms
	property.Bathrooms = in.Bathrooms
	property.MonthlyRent = in.MonthlyRent
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, NewDomainError(ErrorTypeValidation, "unknown property status", nil).
				WithDetail("status", string(*in.Status))
		}
		property.Status = *in.Status
	}
	property.UpdatedAt = time.Now()

	if err := s.properties.Update(ctx, property); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, WrapInternal("failed to update property", err)
	}

	s.logger.Info("property updated",
		zap.String("property_id", property.ID.String()),
		zap.String("actor_id", actor.ID.String()))

	return property, nil
}

// Delete removes a property and detaches any tenants still assigned to it,
// atomically. Landlords may only delete their own properties.
func (s *PropertyService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	property, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() && !property.OwnedBy(actor.ID) {
		return ErrNotOwner
	}

	var detached int64
	err = WithTransaction(ctx, s.txManager, func(txCtx context.Context) error {
		var txErr error
		detached, txErr = s.tenants.UnassignFromProperty(txCtx, id)
		if txErr != nil {
			return WrapInternal("failed to unassign tenants", txErr)
		}

		if txErr := s.properties.Delete(txCtx, id); txErr != nil {
			if errors.Is(txErr, repositories.ErrNotFound) {
				return ErrPropertyNotFound
			}
			return WrapInternal("failed to delete property", txErr)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("property deleted",
		zap.String("property_id", id.String()),
		zap.String("actor_id", actor.ID.String()),
		zap.Int64("tenants_detached", detached))

	return nil
}

// ClampPage normalises list pagination parameters to the service page
// bounds. Handlers use it too so responses echo the effective values.
func ClampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
