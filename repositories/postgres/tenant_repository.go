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

// TenantRepository implements the repositories.TenantRepository interface
type TenantRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *DB, logger *zap.Logger) repositories.TenantRepository {
	return &TenantRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new tenant
func (r *TenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, property_id, first_name, last_name, email, phone,
			status, lease_start, lease_end, monthly_rent, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	executor := GetExecutor(ctx, r.db)
	_, err := executor.ExecContext(ctx, query,
		tenant.ID,
		tenant.PropertyID,
		tenant.FirstName,
		tenant.LastName,
		tenant.Email,
		tenant.Phone,
		tenant.Status,
		tenant.LeaseStart,
		tenant.LeaseEnd,
		tenant.MonthlyRent,
		tenant.Notes,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}

	r.logger.Debug("tenant created",
		zap.String("id", tenant.ID.String()),
		zap.String("email", tenant.Email))
	return nil
}

// GetByID retrieves a tenant by ID
func (r *TenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `
		SELECT id, property_id, first_name, last_name, email, phone,
			status, lease_start, lease_end, monthly_rent, notes, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	tenant := &models.Tenant{}

	err := executor.QueryRowContext(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.PropertyID,
		&tenant.FirstName,
		&tenant.LastName,
		&tenant.Email,
		&tenant.Phone,
		&tenant.Status,
		&tenant.LeaseStart,
		&tenant.LeaseEnd,
		&tenant.MonthlyRent,
		&tenant.Notes,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: tenant %s", repositories.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return tenant, nil
}

// GetByEmail retrieves a tenant by email
func (r *TenantRepository) GetByEmail(ctx context.Context, email string) (*models.Tenant, error) {
	query := `
		SELECT id, property_id, first_name, last_name, email, phone,
			status, lease_start, lease_end, monthly_rent, notes, created_at, updated_at
		FROM tenants
		WHERE email = $1
	`

	executor := GetExecutor(ctx, r.db)
	tenant := &models.Tenant{}

	err := executor.QueryRowContext(ctx, query, email).Scan(
		&tenant.ID,
		&tenant.PropertyID,
		&tenant.FirstName,
		&tenant.LastName,
		&tenant.Email,
		&tenant.Phone,
		&tenant.Status,
		&tenant.LeaseStart,
		&tenant.LeaseEnd,
		&tenant.MonthlyRent,
		&tenant.Notes,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: tenant %s", repositories.ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}

	return tenant, nil
}

// GetByPropertyID retrieves all tenants assigned to a property
func (r *TenantRepository) GetByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*models.Tenant, error) {
	query := `
		SELECT id, property_id, first_name, last_name, email, phone,
			status, lease_start, lease_end, monthly_rent, notes, created_at, updated_at
		FROM tenants
		WHERE property_id = $1
		ORDER BY created_at DESC
	`

	return r.queryTenants(ctx, query, propertyID)
}

// List retrieves tenants matching the filter and the total match count
func (r *TenantRepository) List(ctx context.Context, filter repositories.TenantFilter) ([]*models.Tenant, int, error) {
	baseQuery := `
		SELECT id, property_id, first_name, last_name, email, phone,
			status, lease_start, lease_end, monthly_rent, notes, created_at, updated_at
		FROM tenants
	`
	countQuery := `SELECT COUNT(*) FROM tenants`

	var conditions []string
	var args []interface{}

	if filter.PropertyID != nil {
		args = append(args, *filter.PropertyID)
		conditions = append(conditions, fmt.Sprintf("property_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if len(conditions) > 0 {
		where := " WHERE " + strings.Join(conditions, " AND ")
		baseQuery += where
		countQuery += where
	}

	executor := GetExecutor(ctx, r.db)

	var total int
	if err := executor.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tenants: %w", err)
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

	tenants, err := r.queryTenants(ctx, baseQuery, args...)
	if err != nil {
		return nil, 0, err
	}

	return tenants, total, nil
}

// Update updates a tenant
func (r *TenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET property_id = $2,
		    first_name = $3,
		    last_name = $4,
		    email = $5,
		    phone = $6,
		    status = $7,
		    lease_start = $8,
		    lease_end = $9,
		    monthly_rent = $10,
		    notes = $11,
		    updated_at = $12
		WHERE id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query,
		tenant.ID,
		tenant.PropertyID,
		tenant.FirstName,
		tenant.LastName,
		tenant.Email,
		tenant.Phone,
		tenant.Status,
		tenant.LeaseStart,
		tenant.LeaseEnd,
		tenant.MonthlyRent,
		tenant.Notes,
		tenant.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update tenant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: tenant %s", repositories.ErrNotFound, tenant.ID)
	}

	r.logger.Debug("tenant updated", zap.String("id", tenant.ID.String()))
	return nil
}

// UnassignFromProperty clears the property link for every tenant of a
// property and returns how many tenants were detached
func (r *TenantRepository) UnassignFromProperty(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	query := `
		UPDATE tenants
		SET property_id = NULL,
		    updated_at = $2
		WHERE property_id = $1
	`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, propertyID, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to unassign tenants: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	r.logger.Debug("tenants unassigned",
		zap.String("property_id", propertyID.String()),
		zap.Int64("count", rowsAffected))
	return rowsAffected, nil
}

// Delete deletes a tenant
func (r *TenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM tenants WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: tenant %s", repositories.ErrNotFound, id)
	}

	r.logger.Debug("tenant deleted", zap.String("id", id.String()))
	return nil
}

// WithTx returns a new repository instance bound to the transaction
func (r *TenantRepository) WithTx(tx repositories.Transaction) repositories.TenantRepository {
	return &TenantRepository{
		db:     r.db,
		logger: r.logger,
	}
}

// queryTenants executes a query and scans tenant rows
func (r *TenantRepository) queryTenants(ctx context.Context, query string, args ...interface{}) ([]*models.Tenant, error) {
	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant := &models.Tenant{}
		err := rows.Scan(
			&tenant.ID,
			&tenant.PropertyID,
			&tenant.FirstName,
			&tenant.LastName,
			&tenant.Email,
			&tenant.Phone,
			&tenant.Status,
			&tenant.LeaseStart,
			&tenant.LeaseEnd,
			&tenant.MonthlyRent,
			&tenant.Notes,
			&tenant.CreatedAt,
			&tenant.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tenant: %w", err)
		}
		tenants = append(tenants, tenant)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tenant rows: %w", err)
	}

	return tenants, nil
}
