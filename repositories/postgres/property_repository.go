package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AryanKumar02/EstateLink/models"
	"github.com/AryanKumar02/EstateLink/repositories"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyRepository implements the repositories.PropertyRepository interface
type PropertyRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *DB, logger *zap.Logger) repositories.PropertyRepository {
	return &PropertyRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new property
func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	query := `
		INSERT INTO properties (id, landlord_id, title, description, address_line1, address_line2,
			city, postcode, property_type, bedrooms, bathrooms, monthly_rent, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		property.ID,
		property.LandlordID,
		property.Title,
		property.Description,
		property.AddressLine1,
		property.AddressLine2,
		property.City,
		property.Postcode,
		property.PropertyType,
		property.Bedrooms,
		property.Bathrooms,
		property.MonthlyRent,
		property.Status,
		property.CreatedAt,
		property.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create property: %w", err)
	}

	r.logger.Debug("property created",
		zap.String("id", property.ID.String()),
		zap.String("landlord_id", property.LandlordID.String()))
	return nil
}

// GetByID retrieves a property by ID
func (r *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := `
		SELECT id, landlord_id, title, description, address_line1, address_line2,
			city, postcode, property_type, bedrooms, bathrooms, monthly_rent, status, created_at, updated_at
		FROM properties
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	property := &models.Property{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&property.ID,
		&property.LandlordID,
		&property.Title,
		&property.Description,
		&property.AddressLine1,
		&property.AddressLine2,
		&property.City,
		&property.Postcode,
		&property.PropertyType,
		&property.Bedrooms,
		&property.Bathrooms,
		&property.MonthlyRent,
		&property.Status,
		&property.CreatedAt,
		&property.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: property %s", repositories.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return property, nil
}

// GetByLandlordID retrieves all properties owned by a landlord
func (r *PropertyRepository) GetByLandlordID(ctx context.Context, landlordID uuid.UUID) ([]*models.Property, error) {
	query := `
		SELECT id, landlord_id, title, description, address_line1, address_line2,
			city, postcode, property_type, bedrooms, bathrooms, monthly_rent, status, created_at, updated_at
		FROM properties
		WHERE landlord_id = $1
		ORDER BY created_at DESC
	`

	return r.queryProperties(ctx, query, landlordID)
}

// List retrieves properties matching the filter and the total match count
func (r *PropertyRepository) List(ctx context.Context, filter repositories.PropertyFilter) ([]*models.Property, int, error) {
	baseQuery := `
		SELECT id, landlord_id, title, description, address_line1, address_line2,
			city, postcode, property_type, bedrooms, bathrooms, monthly_rent, status, created_at, updated_at
		FROM properties
	`
	countQuery := `SELECT COUNT(*) FROM properties`

	var conditions []string
	var args []interface{}

	if filter.LandlordID != nil {
		args = append(args, *filter.LandlordID)
		conditions = append(conditions, fmt.Sprintf("landlord_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.City != "" {
		args = append(args, filter.City)
		conditions = append(conditions, fmt.Sprintf("city = $%d", len(args)))
	}

	if len(conditions) > 0 {
		where := " WHERE " + strings.Join(conditions, " AND ")
		baseQuery += where
		countQuery += where
	}

	executor := GetExecutor(ctx, r.db)

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count properties: %w", err)
	}

	baseQuery += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		baseQuery += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		baseQuery += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	properties, err := r.queryProperties(ctx, baseQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	return properties, total, nil
}

// Update updates a property. The landlord link is fixed at creation
// and never changes.
func (r *PropertyRepository) Update(ctx context.Context, property *models.Property) error {
	query := `
		UPDATE properties
		SET title = $2,
		    description = $3,
		    address_line1 = $4,
		    address_line2 = $5,
		    city = $6,
		    postcode = $7,
		    property_type = $8,
		    bedrooms = $9,
		    bathrooms = $10,
		    monthly_rent = $11,
		    status = $12,
		    updated_at = $13
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		property.ID,
		property.Title,
		property.Description,
		property.AddressLine1,
		property.AddressLine2,
		property.City,
		property.Postcode,
		property.PropertyType,
		property.Bedrooms,
		property.Bathrooms,
		property.MonthlyRent,
		property.Status,
		property.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: property %s", repositories.ErrNotFound, property.ID)
	}

	r.logger.Debug("property updated", zap.String("id", property.ID.String()))
	return nil
}

// UpdateStatus updates only the occupancy status of a property
func (r *PropertyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.PropertyStatus) error {
	query := `
		UPDATE properties
		SET status = $2,
		    updated_at = $3
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update property status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: property %s", repositories.ErrNotFound, id)
	}

	r.logger.Debug("property status updated",
		zap.String("id", id.String()),
		zap.String("status", string(status)))
	return nil
}

// Delete deletes a property
func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM properties WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: property %s", repositories.ErrNotFound, id)
	}

	r.logger.Debug("property deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *PropertyRepository) WithTx(tx repositories.Transaction) repositories.PropertyRepository {
	return &PropertyRepository{
		db:     r.db,
		logger: r.logger,
	}
}

// queryProperties executes a query and scans property rows
func (r *PropertyRepository) queryProperties(ctx context.Context, query string, args ...interface{}) ([]*models.Property, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query properties: %w", err)
	}
	defer rows.Close()

	var properties []*models.Property
	for rows.Next() {
		property := &models.Property{}
		err := rows.Scan(
			&property.ID,
			&property.LandlordID,
			&property.Title,
			&property.Description,
			&property.AddressLine1,
			&property.AddressLine2,
			&property.City,
			&property.Postcode,
			&property.PropertyType,
			&property.Bedrooms,
			&property.Bathrooms,
			&property.MonthlyRent,
			&property.Status,
			&property.CreatedAt,
			&property.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, property)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating property rows: %w", err)
	}

	return properties, nil
}
