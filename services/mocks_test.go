package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/AryanKumar02/EstateLink/models"
	"github.com/AryanKumar02/EstateLink/repositories"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filter repositories.UserFilter) ([]*models.User, int, error) {
	args := m.Called(ctx, filter)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockUserRepository) WithTx(tx repositories.Transaction) repositories.UserRepository {
	return m
}

// MockPropertyRepository is a mock implementation of repositories.PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	args := m.Called(ctx, id)
	if p := args.Get(0); p != nil {
		return p.(*models.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPropertyRepository) GetByLandlordID(ctx context.Context, landlordID uuid.UUID) ([]*models.Property, error) {
	args := m.Called(ctx, landlordID)
	if p := args.Get(0); p != nil {
		return p.([]*models.Property), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPropertyRepository) List(ctx context.Context, filter repositories.PropertyFilter) ([]*models.Property, int, error) {
	args := m.Called(ctx, filter)
	if p := args.Get(0); p != nil {
		return p.([]*models.Property), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockPropertyRepository) Update(ctx context.Context, property *models.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}

func (m *MockPropertyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PropertyStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) WithTx(tx repositories.Transaction) repositories.PropertyRepository {
	return m
}

// MockTenantRepository is a mock implementation of repositories.TenantRepository
type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if t := args.Get(0); t != nil {
		return t.(*models.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTenantRepository) GetByEmail(ctx context.Context, email string) (*models.Tenant, error) {
	args := m.Called(ctx, email)
	if t := args.Get(0); t != nil {
		return t.(*models.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTenantRepository) GetByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Tenant, error) {
	args := m.Called(ctx, propertyID)
	if t := args.Get(0); t != nil {
		return t.([]*models.Tenant), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTenantRepository) List(ctx context.Context, filter repositories.TenantFilter) ([]*models.Tenant, int, error) {
	args := m.Called(ctx, filter)
	if t := args.Get(0); t != nil {
		return t.([]*models.Tenant), args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	args := m.Called(ctx, tenant)
	return args.Error(0)
}

func (m *MockTenantRepository) UnassignFromProperty(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	args := m.Called(ctx, propertyID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTenantRepository) WithTx(tx repositories.Transaction) repositories.TenantRepository {
	return m
}
