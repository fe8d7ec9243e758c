package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AryanKumar02/EstateLink/models"
	"github.com/AryanKumar02/EstateLink/repositories"
)

// TenantInput carries the caller-supplied fields for creating or updating a
// tenant. PropertyID is nil for unassigned tenants; Status defaults to
// pending on create and keeps the current value on update when nil.
type TenantInput struct {
	PropertyID  *uuid.UUID
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Status      *models.TenantStatus
	LeaseStart  *time.Time
	LeaseEnd    *time.Time
	MonthlyRent int64
	Notes       string
}

// TenantService handles tenant lifecycle and property assignment
type TenantService struct {
	tenants    repositories.TenantRepository
	properties repositories.PropertyRepository
	txManager  repositories.TransactionManager
	logger     *zap.Logger
}

// NewTenantService creates a new TenantService instance
func NewTenantService(
	tenants repositories.TenantRepository,
	properties repositories.PropertyRepository,
	txManager repositories.TransactionManager,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenants:    tenants,
		properties: properties,
		txManager:  txManager,
		logger:     logger,
	}
}

// Create registers a new tenant, optionally assigning them to a property.
// Assignment and the resulting occupancy change happen in one transaction.
func (s *TenantService) Create(ctx context.Context, in TenantInput) (*models.Tenant, error) {
	if err := validateLeaseWindow(in.LeaseStart, in.LeaseEnd); err != nil {
		return nil, err
	}

	if err := s.checkEmailAvailable(ctx, in.Email, uuid.Nil); err != nil {
		return nil, err
	}

	tenant := models.NewTenant(in.FirstName, in.LastName, in.Email)
	tenant.Phone = in.Phone
	tenant.LeaseStart = in.LeaseStart
	tenant.LeaseEnd = in.LeaseEnd
	tenant.MonthlyRent = in.MonthlyRent
	tenant.Notes = in.Notes
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, NewDomainError(ErrorTypeValidation, "unknown tenant status", nil).
				WithDetail("status", string(*in.Status))
		}
		tenant.Status = *in.Status
	}
	tenant.PropertyID = in.PropertyID

	if tenant.PropertyID == nil {
		if err := s.tenants.Create(ctx, tenant); err != nil {
			return nil, WrapInternal("failed to create tenant", err)
		}
	} else {
		err := WithTransaction(ctx, s.txManager, func(txCtx context.Context) error {
			if txErr := s.checkAssignable(txCtx, tenant); txErr != nil {
				return txErr
			}
			if txErr := s.tenants.Create(txCtx, tenant); txErr != nil {
				return WrapInternal("failed to create tenant", txErr)
			}
			return s.syncPropertyStatus(txCtx, *tenant.PropertyID)
		})
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info("tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.Bool("assigned", tenant.Assigned()))

	return tenant, nil
}

// Get retrieves a single tenant by ID
func (s *TenantService) Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant, err := s.tenants.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, WrapInternal("failed to fetch tenant", err)
	}
	return tenant, nil
}

// List retrieves tenants matching the filter along with the total match count
func (s *TenantService) List(ctx context.Context, filter repositories.TenantFilter) ([]*models.Tenant, int, error) {
	filter.Limit, filter.Offset = ClampPage(filter.Limit, filter.Offset)

	tenants, total, err := s.tenants.List(ctx, filter)
	if err != nil {
		return nil, 0, WrapInternal("failed to list tenants", err)
	}
	return tenants, total, nil
}

// Update replaces the mutable fields of a tenant. Assignment or status
// changes also resync the occupancy of the affected properties, atomically.
func (s *TenantService) Update(ctx context.Context, id uuid.UUID, in TenantInput) (*models.Tenant, error) {
	tenant, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := validateLeaseWindow(in.LeaseStart, in.LeaseEnd); err != nil {
		return nil, err
	}

	email := strings.ToLower(in.Email)
	if email != tenant.Email {
		if err := s.checkEmailAvailable(ctx, email, tenant.ID); err != nil {
			return nil, err
		}
	}

	previousPropertyID := tenant.PropertyID

	tenant.PropertyID = in.PropertyID
	tenant.FirstName = in.FirstName
	tenant.LastName = in.LastName
	tenant.Email = email
	tenant.Phone = in.Phone
	tenant.LeaseStart = in.LeaseStart
	tenant.LeaseEnd = in.LeaseEnd
	tenant.MonthlyRent = in.MonthlyRent
	tenant.Notes = in.Notes
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, NewDomainError(ErrorTypeValidation, "unknown tenant status", nil).
				WithDetail("status", string(*in.Status))
		}
		tenant.Status = *in.Status
	}
	tenant.UpdatedAt = time.Now()

	// Occupancy only shifts when the assignment or the lifecycle state moved
	needsSync := !uuidPtrEqual(previousPropertyID, tenant.PropertyID) ||
		(in.Status != nil && tenant.PropertyID != nil)

	if !needsSync {
		if err := s.tenants.Update(ctx, tenant); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, ErrTenantNotFound
			}
			return nil, WrapInternal("failed to update tenant", err)
		}
		return tenant, nil
	}

	err = WithTransaction(ctx, s.txManager, func(txCtx context.Context) error {
		if tenant.PropertyID != nil && !uuidPtrEqual(previousPropertyID, tenant.PropertyID) {
			if txErr := s.checkAssignable(txCtx, tenant); txErr != nil {
				return txErr
			}
		}

		if txErr := s.tenants.Update(txCtx, tenant); txErr != nil {
			if errors.Is(txErr, repositories.ErrNotFound) {
				return ErrTenantNotFound
			}
			return WrapInternal("failed to update tenant", txErr)
		}

		if previousPropertyID != nil && !uuidPtrEqual(previousPropertyID, tenant.PropertyID) {
			if txErr := s.syncPropertyStatus(txCtx, *previousPropertyID); txErr != nil {
				return txErr
			}
		}
		if tenant.PropertyID != nil {
			return s.syncPropertyStatus(txCtx, *tenant.PropertyID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tenant updated",
		zap.String("tenant_id", tenant.ID.String()),
		zap.Bool("assigned", tenant.Assigned()))

	return tenant, nil
}

// Delete removes a tenant. If they were assigned to a property the
// property's occupancy is resynced in the same transaction.
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) error {
	tenant, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if tenant.PropertyID == nil {
		if err := s.tenants.Delete(ctx, id); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrTenantNotFound
			}
			return WrapInternal("failed to delete tenant", err)
		}
	} else {
		propertyID := *tenant.PropertyID
		err = WithTransaction(ctx, s.txManager, func(txCtx context.Context) error {
			if txErr := s.tenants.Delete(txCtx, id); txErr != nil {
				if errors.Is(txErr, repositories.ErrNotFound) {
					return ErrTenantNotFound
				}
				return WrapInternal("failed to delete tenant", txErr)
			}
			return s.syncPropertyStatus(txCtx, propertyID)
		})
		if err != nil {
			return err
		}
	}

	s.logger.Info("tenant deleted", zap.String("tenant_id", id.String()))
	return nil
}

// checkEmailAvailable returns ErrDuplicateEmail when another tenant already
// uses the address. selfID exempts the tenant being updated.
func (s *TenantService) checkEmailAvailable(ctx context.Context, email string, selfID uuid.UUID) error {
	existing, err := s.tenants.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return WrapInternal("failed to check tenant email", err)
	}
	if existing.ID == selfID {
		return nil
	}
	return ErrDuplicateEmail
}

// checkAssignable verifies the target property exists and can take the
// tenant. Properties under maintenance reject active tenants.
func (s *TenantService) checkAssignable(ctx context.Context, tenant *models.Tenant) error {
	property, err := s.properties.GetByID(ctx, *tenant.PropertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPropertyNotFound
		}
		return WrapInternal("failed to fetch property", err)
	}

	if tenant.IsActive() && property.Status == models.PropertyStatusMaintenance {
		return ErrPropertyOccupied
	}
	return nil
}

// syncPropertyStatus derives a property's occupancy from its tenants:
// occupied while at least one active tenant is assigned, available once none
// are. Properties under maintenance are left alone.
func (s *TenantService) syncPropertyStatus(ctx context.Context, propertyID uuid.UUID) error {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Property removed concurrently, nothing to sync
			return nil
		}
		return WrapInternal("failed to fetch property", err)
	}

	occupants, err := s.tenants.GetByPropertyID(ctx, propertyID)
	if err != nil {
		return WrapInternal("failed to fetch property tenants", err)
	}

	hasActive := false
	for _, t := range occupants {
		if t.IsActive() {
			hasActive = true
			break
		}
	}

	var next models.PropertyStatus
	switch {
	case hasActive && property.Status == models.PropertyStatusAvailable:
		next = models.PropertyStatusOccupied
	case !hasActive && property.Status == models.PropertyStatusOccupied:
		next = models.PropertyStatusAvailable
	default:
		return nil
	}

	if err := s.properties.UpdateStatus(ctx, propertyID, next); err != nil {
		return WrapInternal("failed to update property status", err)
	}

	s.logger.Debug("property status synced",
		zap.String("property_id", propertyID.String()),
		zap.String("status", string(next)))

	return nil
}

func validateLeaseWindow(start, end *time.Time) error {
	if start != nil && end != nil && !end.After(*start) {
		return ErrInvalidLease
	}
	return nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
