package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AryanKumar02/EstateLink/models"
	"github.com/AryanKumar02/EstateLink/repositories"
)

func testLandlord() *models.User {
	return models.NewUser("landlord@example.com", "Laura", "Lodge", models.RoleLandlord)
}

func testAdmin() *models.User {
	return models.NewUser("admin@example.com", "Ada", "Root", models.RoleAdmin)
}

func testPropertyInput() PropertyInput {
	return PropertyInput{
		Title:        "Two bed flat",
		AddressLine1: "12 Harbour Street",
		City:         "Brighton",
		Postcode:     "BN1 1AA",
		PropertyType: models.PropertyTypeFlat,
		Bedrooms:     2,
		Bathrooms:    1,
		MonthlyRent:  145000,
	}
}

func newPropertyServiceForTest(txMgr repositories.TransactionManager) (*PropertyService, *MockUserRepository, *MockPropertyRepository, *MockTenantRepository) {
	users := new(MockUserRepository)
	properties := new(MockPropertyRepository)
	tenants := new(MockTenantRepository)
	svc := NewPropertyService(users, properties, tenants, txMgr, zap.NewNop())
	return svc, users, properties, tenants
}

func TestPropertyService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("landlord creates own property", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		actor := testLandlord()

		properties.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Property) bool {
			return p.LandlordID == actor.ID && p.Status == models.PropertyStatusAvailable
		})).Return(nil)

		property, err := svc.Create(ctx, actor, testPropertyInput())

		require.NoError(t, err)
		assert.Equal(t, actor.ID, property.LandlordID)
		assert.Equal(t, "Two bed flat", property.Title)
		assert.Equal(t, models.PropertyTypeFlat, property.PropertyType)
		assert.Equal(t, models.PropertyStatusAvailable, property.Status)
		assert.Equal(t, int64(145000), property.MonthlyRent)
		assert.False(t, property.CreatedAt.IsZero())
		properties.AssertExpectations(t)
	})

	t.Run("admin creates property for another landlord", func(t *testing.T) {
		svc, users, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		actor := testAdmin()
		owner := testLandlord()

		users.On("GetByID", mock.Anything, owner.ID).Return(owner, nil)
		properties.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Property) bool {
			return p.LandlordID == owner.ID
		})).Return(nil)

		in := testPropertyInput()
		in.LandlordID = &owner.ID

		property, err := svc.Create(ctx, actor, in)

		require.NoError(t, err)
		assert.Equal(t, owner.ID, property.LandlordID)
		users.AssertExpectations(t)
		properties.AssertExpectations(t)
	})

	t.Run("landlord cannot create property for someone else", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		actor := testLandlord()
		otherID := uuid.New()

		in := testPropertyInput()
		in.LandlordID = &otherID

		_, err := svc.Create(ctx, actor, in)

		require.Error(t, err)
		assert.True(t, IsForbiddenError(err))
		properties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("named landlord does not exist", func(t *testing.T) {
		svc, users, _, _ := newPropertyServiceForTest(&fakeTxManager{})
		actor := testAdmin()
		missingID := uuid.New()

		users.On("GetByID", mock.Anything, missingID).Return(nil, repositories.ErrNotFound)

		in := testPropertyInput()
		in.LandlordID = &missingID

		_, err := svc.Create(ctx, actor, in)

		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("named user cannot own properties", func(t *testing.T) {
		svc, users, _, _ := newPropertyServiceForTest(&fakeTxManager{})
		actor := testAdmin()
		occupant := models.NewUser("occupant@example.com", "Tom", "Hale", models.RoleTenant)

		users.On("GetByID", mock.Anything, occupant.ID).Return(occupant, nil)

		in := testPropertyInput()
		in.LandlordID = &occupant.ID

		_, err := svc.Create(ctx, actor, in)

		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})

	t.Run("unknown property type", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})

		in := testPropertyInput()
		in.PropertyType = "castle"

		_, err := svc.Create(ctx, testLandlord(), in)

		require.Error(t, err)
		assert.True(t, IsValidationError(err))
		properties.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc, _, _, _ := newPropertyServiceForTest(&fakeTxManager{})

		bad := models.PropertyStatus("demolished")
		in := testPropertyInput()
		in.Status = &bad

		_, err := svc.Create(ctx, testLandlord(), in)

		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	})

	t.Run("repository failure", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})

		properties.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

		_, err := svc.Create(ctx, testLandlord(), testPropertyInput())

		require.Error(t, err)
		assert.True(t, IsInternalError(err))
	})
}

func TestPropertyService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		owner := testLandlord()
		existing := models.NewProperty(owner.ID, "Cottage", "1 Lane", "York", "YO1 1AA", models.PropertyTypeHouse)

		properties.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		property, err := svc.Get(ctx, existing.ID)

		require.NoError(t, err)
		assert.Equal(t, existing.ID, property.ID)
	})

	t.Run("not found", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		id := uuid.New()

		properties.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		_, err := svc.Get(ctx, id)

		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("database error", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		id := uuid.New()

		properties.On("GetByID", mock.Anything, id).Return(nil, errors.New("connection lost"))

		_, err := svc.Get(ctx, id)

		require.Error(t, err)
		assert.True(t, IsInternalError(err))
	})
}

func TestPropertyService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns items and total", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		owner := testLandlord()
		items := []*models.Property{
			models.NewProperty(owner.ID, "Flat A", "1 High St", "Leeds", "LS1 1AA", models.PropertyTypeFlat),
			models.NewProperty(owner.ID, "Flat B", "2 High St", "Leeds", "LS1 1AB", models.PropertyTypeFlat),
		}

		properties.On("List", mock.Anything, mock.Anything).Return(items, 42, nil)

		got, total, err := svc.List(ctx, repositories.PropertyFilter{Limit: 2})

		require.NoError(t, err)
		assert.Len(t, got, 2)
		assert.Equal(t, 42, total)
	})

	t.Run("clamps pagination", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})

		properties.On("List", mock.Anything, mock.MatchedBy(func(f repositories.PropertyFilter) bool {
			return f.Limit == maxPageSize && f.Offset == 0
		})).Return([]*models.Property{}, 0, nil)

		_, _, err := svc.List(ctx, repositories.PropertyFilter{Limit: 5000, Offset: -3})

		require.NoError(t, err)
		properties.AssertExpectations(t)
	})

	t.Run("defaults page size", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})

		properties.On("List", mock.Anything, mock.MatchedBy(func(f repositories.PropertyFilter) bool {
			return f.Limit == defaultPageSize
		})).Return([]*models.Property{}, 0, nil)

		_, _, err := svc.List(ctx, repositories.PropertyFilter{})

		require.NoError(t, err)
		properties.AssertExpectations(t)
	})
}

func TestPropertyService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("owner updates own property", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		actor := testLandlord()
		existing := models.NewProperty(actor.ID, "Old title", "1 Lane", "York", "YO1 1AA", models.PropertyTypeHouse)
		createdAt := existing.CreatedAt

		properties.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		properties.On("Update", mock.Anything, mock.Anything).Return(nil)

		in := testPropertyInput()
		in.Title = "New title"

		updated, err := svc.Update(ctx, actor, existing.ID, in)

		require.NoError(t, err)
		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, models.PropertyTypeFlat, updated.PropertyType)
		assert.Equal(t, createdAt, updated.CreatedAt)
		assert.True(t, updated.UpdatedAt.After(createdAt) || updated.UpdatedAt.Equal(createdAt))
	})

	t.Run("admin updates any property", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		owner := testLandlord()
		existing := models.NewProperty(owner.ID, "Old title", "1 Lane", "York", "YO1 1AA", models.PropertyTypeHouse)

		properties.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		properties.On("Update", mock.Anything, mock.Anything).Return(nil)

		_, err := svc.Update(ctx, testAdmin(), existing.ID, testPropertyInput())

		require.NoError(t, err)
	})

	t.Run("landlord cannot update another landlord's property", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		owner := testLandlord()
		intruder := testLandlord()
		existing := models.NewProperty(owner.ID, "Old title", "1 Lane", "York", "YO1 1AA", models.PropertyTypeHouse)

		properties.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		_, err := svc.Update(ctx, intruder, existing.ID, testPropertyInput())

		require.Error(t, err)
		assert.True(t, IsForbiddenError(err))
		properties.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("property not found", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		id := uuid.New()

		properties.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		_, err := svc.Update(ctx, testAdmin(), id, testPropertyInput())

		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
	})

	t.Run("status change is applied", func(t *testing.T) {
		svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
		actor := testLandlord()
		existing := models.NewProperty(actor.ID, "Old title", "1 Lane", "York", "YO1 1AA", models.PropertyTypeHouse)

		properties.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		properties.On("Update", mock.Anything, mock.MatchedBy(func(p *models.Property) bool {
			return p.Status == models.PropertyStatusMaintenance
		})).Return(nil)

		maintenance := models.PropertyStatusMaintenance
		in := testPropertyInput()
		in.Status = &maintenance

		updated, err := svc.Update(ctx, actor, existing.ID, in)

		require.NoError(t, err)
		assert.Equal(t, models.PropertyStatusMaintenance, updated.Status)
		properties.AssertExpectations(t)
	})
}

func TestPropertyService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("owner deletes property and tenants are detached", func(t *testing.T) {
		txMgr := &fakeTxManager{}
		svc, _, properties, tenants := newPropertyServiceForTest(txMgr)
		actor := testLandlord()
		existing := models.NewProperty(actor.ID, "Cottage", "1 Lane", "York", "YO1 1AA", models.PropertyTypeHouse)

		properties.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		tenants.On("UnassignFromProperty", mock.Anything, existing.ID).Return(int64(2), nil)
		properties.On("Delete", mock.Anything, existing.ID).Return(nil)

		err := svc.Delete(ctx, actor, existing.ID)

		require.NoError(t, err)
		assert.Equal(t, 1, txMgr.calls)
		assert.True(t, txMgr.committed)
		tenants.AssertExpectations(t)
		properties.AssertExpectations(t)
	})

	t.Run("landlord cannot delete another landlord's property", func(t *testing.T) {
		txMgr := &fakeTxManager{}
		svc, _, properties, _ := newPropertyServiceForTest(txMgr)
		owner := testLandlord()
		intruder := testLandlord()
		existing := models.NewProperty(owner.ID, "Cottage", "1 Lane", "York", "YO1 1AA", models.PropertyTypeHouse)

		properties.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)

		err := svc.Delete(ctx, intruder, existing.ID)

		require.Error(t, err)
		assert.True(t, IsForbiddenError(err))
		assert.Equal(t, 0, txMgr.calls)
	})

	t.Run("rolls back when unassign fails", func(t *testing.T) {
		txMgr := &fakeTxManager{}
		svc, _, properties, tenants := newPropertyServiceForTest(txMgr)
		actor := testAdmin()
		existing := models.NewProperty(uuid.New(), "Cottage", "1 Lane", "York", "YO1 1AA", models.PropertyTypeHouse)

		properties.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
		tenants.On("UnassignFromProperty", mock.Anything, existing.ID).Return(int64(0), errors.New("update failed"))

		err := svc.Delete(ctx, actor, existing.ID)

		require.Error(t, err)
		assert.True(t, IsInternalError(err))
		assert.True(t, txMgr.rolledBack)
		properties.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("property not found", func(t *testing.T) {
		txMgr := &fakeTxManager{}
		svc, _, properties, _ := newPropertyServiceForTest(txMgr)
		id := uuid.New()

		properties.On("GetByID", mock.Anything, id).Return(nil, repositories.ErrNotFound)

		err := svc.Delete(ctx, testAdmin(), id)

		require.Error(t, err)
		assert.True(t, IsNotFoundError(err))
		assert.Equal(t, 0, txMgr.calls)
	})
}

func TestClampPage(t *testing.T) {
	tests := []struct {
		name       string
		limit      int
		offset     int
		wantLimit  int
		wantOffset int
	}{
		{"zero limit uses default", 0, 0, defaultPageSize, 0},
		{"negative limit uses default", -5, 10, defaultPageSize, 10},
		{"oversized limit is capped", 10000, 0, maxPageSize, 0},
		{"negative offset is floored", 10, -1, 10, 0},
		{"in range untouched", 50, 200, 50, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limit, offset := ClampPage(tt.limit, tt.offset)
			assert.Equal(t, tt.wantLimit, limit)
			assert.Equal(t, tt.wantOffset, offset)
		})
	}
}

// Verify the update path keeps time ordering sane when the clock does not
// advance between create and update, which happens on fast machines.
func TestPropertyService_UpdateTimestampMonotonic(t *testing.T) {
	svc, _, properties, _ := newPropertyServiceForTest(&fakeTxManager{})
	actor := testLandlord()
	existing := models.NewProperty(actor.ID, "Old", "1 Lane", "York", "YO1 1AA", models.PropertyTypeHouse)
	existing.CreatedAt = time.Now().Add(-time.Hour)
	existing.UpdatedAt = existing.CreatedAt

	properties.On("GetByID", mock.Anything, existing.ID).Return(existing, nil)
	properties.On("Update", mock.Anything, mock.Anything).Return(nil)

	updated, err := svc.Update(context.Background(), actor, existing.ID, testPropertyInput())

	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
}
