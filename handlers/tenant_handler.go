package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AryanKumar02/EstateLink/middleware"
	"github.com/AryanKumar02/EstateLink/models"
	"github.com/AryanKumar02/EstateLink/repositories"
	"github.com/AryanKumar02/EstateLink/services"
	"github.com/AryanKumar02/EstateLink/utils"
)

// CreateTenantRequest represents a request to register a tenant
type CreateTenantRequest struct {
	PropertyID  *uuid.UUID `json:"property_id,omitempty"`
	FirstName   string     `json:"first_name" validate:"required,max=100"`
	LastName    string     `json:"last_name" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       string     `json:"phone,omitempty" validate:"omitempty,max=30"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=pending active former"`
	LeaseStart  *time.Time `json:"lease_start,omitempty"`
	LeaseEnd    *time.Time `json:"lease_end,omitempty"`
	MonthlyRent int64      `json:"monthly_rent" validate:"gte=0"`
	Notes       string     `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// UpdateTenantRequest represents a request to replace a tenant's mutable
// fields. A nil property_id detaches the tenant from their property.
type UpdateTenantRequest struct {
	PropertyID  *uuid.UUID `json:"property_id,omitempty"`
	FirstName   string     `json:"first_name" validate:"required,max=100"`
	LastName    string     `json:"last_name" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,email"`
	Phone       string     `json:"phone,omitempty" validate:"omitempty,max=30"`
	Status      *string    `json:"status,omitempty" validate:"omitempty,oneof=pending active former"`
	LeaseStart  *time.Time `json:"lease_start,omitempty"`
	LeaseEnd    *time.Time `json:"lease_end,omitempty"`
	MonthlyRent int64      `json:"monthly_rent" validate:"gte=0"`
	Notes       string     `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID          uuid.UUID           `json:"id"`
	PropertyID  *uuid.UUID          `json:"property_id,omitempty"`
	FirstName   string              `json:"first_name"`
	LastName    string              `json:"last_name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone,omitempty"`
	Status      models.TenantStatus `json:"status"`
	LeaseStart  *string             `json:"lease_start,omitempty"`
	LeaseEnd    *string             `json:"lease_end,omitempty"`
	MonthlyRent int64               `json:"monthly_rent"`
	Notes       string              `json:"notes,omitempty"`
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

// TenantListResponse wraps a page of tenants
type TenantListResponse struct {
	Items  []TenantResponse `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// TenantService defines the tenant operations the handler depends on
type TenantService interface {
	Create(ctx context.Context, in services.TenantInput) (*models.Tenant, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	List(ctx context.Context, filter repositories.TenantFilter) ([]*models.Tenant, int, error)
	Update(ctx context.Context, id uuid.UUID, in services.TenantInput) (*models.Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// TenantHandler handles tenant-related HTTP requests
type TenantHandler struct {
	tenants TenantService
	logger  *zap.Logger
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenants TenantService, logger *zap.Logger) *TenantHandler {
	return &TenantHandler{
		tenants: tenants,
		logger:  logger,
	}
}

// HandleListTenants handles GET /api/v1/tenants
func (h *TenantHandler) HandleListTenants(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	propertyID, err := parseUUIDQuery(r, "property_id")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid property_id format", nil)
		return
	}

	var status *models.TenantStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.TenantStatus(raw)
		if !s.Valid() {
			_ = utils.WriteBadRequest(w, "Invalid status filter", nil)
			return
		}
		status = &s
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	limit, offset = services.ClampPage(limit, offset)

	filter := repositories.TenantFilter{
		PropertyID: propertyID,
		Status:     status,
		Limit:      limit,
		Offset:     offset,
	}

	h.logger.Debug("listing tenants",
		zap.String("request_id", requestID),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	tenants, total, err := h.tenants.List(ctx, filter)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	items := make([]TenantResponse, len(tenants))
	for i, t := range tenants {
		items[i] = tenantToResponse(t)
	}

	_ = utils.WriteOK(w, TenantListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleGetTenant handles GET /api/v1/tenants/{id}
func (h *TenantHandler) HandleGetTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid tenant ID format", nil)
		return
	}

	tenant, err := h.tenants.Get(ctx, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, tenantToResponse(tenant))
}

// HandleCreateTenant handles POST /api/v1/tenants
func (h *TenantHandler) HandleCreateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var req CreateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	in := services.TenantInput{
		PropertyID:  req.PropertyID,
		FirstName:   utils.SanitizeText(req.FirstName),
		LastName:    utils.SanitizeText(req.LastName),
		Email:       req.Email,
		Phone:       utils.SanitizeText(req.Phone),
		LeaseStart:  req.LeaseStart,
		LeaseEnd:    req.LeaseEnd,
		MonthlyRent: req.MonthlyRent,
		Notes:       utils.SanitizeText(req.Notes),
	}
	if req.Status != nil {
		status := models.TenantStatus(*req.Status)
		in.Status = &status
	}

	tenant, err := h.tenants.Create(ctx, in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("tenant created",
		zap.String("request_id", requestID),
		zap.String("tenant_id", tenant.ID.String()))

	_ = utils.WriteCreated(w, tenantToResponse(tenant))
}

// HandleUpdateTenant handles PUT /api/v1/tenants/{id}
func (h *TenantHandler) HandleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid tenant ID format", nil)
		return
	}

	var req UpdateTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("failed to parse request body",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteBadRequest(w, "Invalid request body", nil)
		return
	}

	if err := utils.ValidateStruct(&req); err != nil {
		h.logger.Warn("request validation failed",
			zap.String("request_id", requestID),
			zap.Error(err))
		HandleValidationError(w, err, h.logger)
		return
	}

	in := services.TenantInput{
		PropertyID:  req.PropertyID,
		FirstName:   utils.SanitizeText(req.FirstName),
		LastName:    utils.SanitizeText(req.LastName),
		Email:       req.Email,
		Phone:       utils.SanitizeText(req.Phone),
		LeaseStart:  req.LeaseStart,
		LeaseEnd:    req.LeaseEnd,
		MonthlyRent: req.MonthlyRent,
		Notes:       utils.SanitizeText(req.Notes),
	}
	if req.Status != nil {
		status := models.TenantStatus(*req.Status)
		in.Status = &status
	}

	tenant, err := h.tenants.Update(ctx, id, in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("tenant updated",
		zap.String("request_id", requestID),
		zap.String("tenant_id", tenant.ID.String()))

	_ = utils.WriteOK(w, tenantToResponse(tenant))
}

// HandleDeleteTenant handles DELETE /api/v1/tenants/{id}
func (h *TenantHandler) HandleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid tenant ID format", nil)
		return
	}

	if err := h.tenants.Delete(ctx, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("tenant deleted",
		zap.String("request_id", requestID),
		zap.String("tenant_id", id.String()))

	utils.WriteNoContent(w)
}

// tenantToResponse converts a tenant model to its API representation
func tenantToResponse(t *models.Tenant) TenantResponse {
	return TenantResponse{
		ID:          t.ID,
		PropertyID:  t.PropertyID,
		FirstName:   t.FirstName,
		LastName:    t.LastName,
		Email:       t.Email,
		Phone:       t.Phone,
		Status:      t.Status,
		LeaseStart:  formatTimePtr(t.LeaseStart),
		LeaseEnd:    formatTimePtr(t.LeaseEnd),
		MonthlyRent: t.MonthlyRent,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
