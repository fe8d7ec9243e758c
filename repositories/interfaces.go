package repositories

import (
	"context"
	"errors"

	"github.com/AryanKumar02/EstateLink/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// UserFilter constrains user list queries
type UserFilter struct {
	Role   *models.UserRole
	Active *bool
	Limit  int
	Offset int
}

// UserRepository handles user data operations.
// User records are provisioned by the external user-management service,
// so this repository only reads them.
type UserRepository interface {
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// List retrieves users matching the filter and the total match count
	List(ctx context.Context, filter UserFilter) ([]*models.User, int, error)

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) UserRepository
}

// PropertyFilter constrains property list queries
type PropertyFilter struct {
	LandlordID *uuid.UUID
	Status     *models.PropertyStatus
	City       string
	Limit      int
	Offset     int
}

// PropertyRepository handles property data operations
type PropertyRepository interface {
	// Create creates a new property
	Create(ctx context.Context, property *models.Property) error

	// GetByID retrieves a property by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error)

	// GetByLandlordID retrieves all properties owned by a landlord
	GetByLandlordID(ctx context.Context, landlordID uuid.UUID) ([]*models.Property, error)

	// List retrieves properties matching the filter and the total match count
	List(ctx context.Context, filter PropertyFilter) ([]*models.Property, int, error)

	// Update updates a property
	Update(ctx context.Context, property *models.Property) error

	// UpdateStatus updates only the occupancy status of a property
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.PropertyStatus) error

	// Delete deletes a property
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) PropertyRepository
}

// TenantFilter constrains tenant list queries
type TenantFilter struct {
	PropertyID *uuid.UUID
	Status     *models.TenantStatus
	Limit      int
	Offset     int
}

// TenantRepository handles tenant data operations
type TenantRepository interface {
	// Create creates a new tenant
	Create(ctx context.Context, tenant *models.Tenant) error

	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)

	// GetByEmail retrieves a tenant by email
	GetByEmail(ctx context.Context, email string) (*models.Tenant, error)

	// GetByPropertyID retrieves all tenants assigned to a property
	GetByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Tenant, error)

	// List retrieves tenants matching the filter and the total match count
	List(ctx context.Context, filter TenantFilter) ([]*models.Tenant, int, error)

	// Update updates a tenant
	Update(ctx context.Context, tenant *models.Tenant) error

	// UnassignFromProperty clears the property link for every tenant of a
	// property and returns how many tenants were detached
	UnassignFromProperty(ctx context.Context, propertyID uuid.UUID) (int64, error)

	// Delete deletes a tenant
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new repository instance bound to the transaction
	WithTx(tx Transaction) TenantRepository
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Users      UserRepository
	Properties PropertyRepository
	Tenants    TenantRepository
}
