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

// CreatePropertyRequest represents a request to register a property.
// LandlordID is only honoured for admins creating on behalf of a landlord.
type CreatePropertyRequest struct {
	Title        string     `json:"title" validate:"required,min=3,max=200"`
	Description  string     `json:"description,omitempty" validate:"omitempty,max=2000"`
	AddressLine1 string     `json:"address_line1" validate:"required,max=200"`
	AddressLine2 string     `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	City         string     `json:"city" validate:"required,max=100"`
	Postcode     string     `json:"postcode" validate:"required,postcode"`
	PropertyType string     `json:"property_type" validate:"required,oneof=house flat apartment studio bungalow"`
	Bedrooms     int        `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms    int        `json:"bathrooms" validate:"gte=0,lte=10"`
	MonthlyRent  int64      `json:"monthly_rent" validate:"gte=0"`
	Status       *string    `json:"status,omitempty" validate:"omitempty,oneof=available occupied maintenance"`
	LandlordID   *uuid.UUID `json:"landlord_id,omitempty"`
}

// UpdatePropertyRequest represents a request to replace a property's
// mutable fields. Ownership cannot be transferred through updates.
type UpdatePropertyRequest struct {
	Title        string  `json:"title" validate:"required,min=3,max=200"`
	Description  string  `json:"description,omitempty" validate:"omitempty,max=2000"`
	AddressLine1 string  `json:"address_line1" validate:"required,max=200"`
	AddressLine2 string  `json:"address_line2,omitempty" validate:"omitempty,max=200"`
	City         string  `json:"city" validate:"required,max=100"`
	Postcode     string  `json:"postcode" validate:"required,postcode"`
	PropertyType string  `json:"property_type" validate:"required,oneof=house flat apartment studio bungalow"`
	Bedrooms     int     `json:"bedrooms" validate:"gte=0,lte=20"`
	Bathrooms    int     `json:"bathrooms" validate:"gte=0,lte=10"`
	MonthlyRent  int64   `json:"monthly_rent" validate:"gte=0"`
	Status       *string `json:"status,omitempty" validate:"omitempty,oneof=available occupied maintenance"`
}

// PropertyResponse represents a property in API responses
type PropertyResponse struct {
	ID           uuid.UUID             `json:"id"`
	LandlordID   uuid.UUID             `json:"landlord_id"`
	Title        string                `json:"title"`
	Description  string                `json:"description,omitempty"`
	AddressLine1 string                `json:"address_line1"`
	AddressLine2 string                `json:"address_line2,omitempty"`
	City         string                `json:"city"`
	Postcode     string                `json:"postcode"`
	PropertyType models.PropertyType   `json:"property_type"`
	Bedrooms     int                   `json:"bedrooms"`
	Bathrooms    int                   `json:"bathrooms"`
	MonthlyRent  int64                 `json:"monthly_rent"`
	Status       models.PropertyStatus `json:"status"`
	CreatedAt    string                `json:"created_at"`
	UpdatedAt    string                `json:"updated_at"`
}

// PropertyListResponse wraps a page of properties
type PropertyListResponse struct {
	Items  []PropertyResponse `json:"items"`
	Total  int                `json:"total"`
	Limit  int                `json:"limit"`
	Offset int                `json:"offset"`
}

// PropertyService defines the property operations the handler depends on
type PropertyService interface {
	Create(ctx context.Context, actor *models.User, in services.PropertyInput) (*models.Property, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Property, error)
	List(ctx context.Context, filter repositories.PropertyFilter) ([]*models.Property, int, error)
	Update(ctx context.Context, actor *models.User, id uuid.UUID, in services.PropertyInput) (*models.Property, error)
	Delete(ctx context.Context, actor *models.User, id uuid.UUID) error
}

// PropertyHandler handles property-related HTTP requests
type PropertyHandler struct {
	properties PropertyService
	logger     *zap.Logger
}

// NewPropertyHandler creates a new PropertyHandler
func NewPropertyHandler(properties PropertyService, logger *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		properties: properties,
		logger:     logger,
	}
}

// HandleListProperties handles GET /api/v1/properties
func (h *PropertyHandler) HandleListProperties(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	landlordID, err := parseUUIDQuery(r, "landlord_id")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid landlord_id format", nil)
		return
	}

	var status *models.PropertyStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.PropertyStatus(raw)
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

	filter := repositories.PropertyFilter{
		LandlordID: landlordID,
		Status:     status,
		City:       r.URL.Query().Get("city"),
		Limit:      limit,
		Offset:     offset,
	}

	h.logger.Debug("listing properties",
		zap.String("request_id", requestID),
		zap.Int("limit", limit),
		zap.Int("offset", offset))

	properties, total, err := h.properties.List(ctx, filter)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	items := make([]PropertyResponse, len(properties))
	for i, p := range properties {
		items[i] = propertyToResponse(p)
	}

	_ = utils.WriteOK(w, PropertyListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleGetProperty handles GET /api/v1/properties/{id}
func (h *PropertyHandler) HandleGetProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid property ID format", nil)
		return
	}

	property, err := h.properties.Get(ctx, id)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	_ = utils.WriteOK(w, propertyToResponse(property))
}

// HandleCreateProperty handles POST /api/v1/properties
func (h *PropertyHandler) HandleCreateProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		h.logger.Error("missing user in context", zap.String("request_id", requestID))
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	var req CreatePropertyRequest
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

	in := services.PropertyInput{
		LandlordID:   req.LandlordID,
		Title:        utils.SanitizeText(req.Title),
		Description:  utils.SanitizeText(req.Description),
		AddressLine1: utils.SanitizeText(req.AddressLine1),
		AddressLine2: utils.SanitizeText(req.AddressLine2),
		City:         utils.SanitizeText(req.City),
		Postcode:     utils.NormalizePostcode(req.Postcode),
		PropertyType: models.PropertyType(req.PropertyType),
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		MonthlyRent:  req.MonthlyRent,
	}
	if req.Status != nil {
		status := models.PropertyStatus(*req.Status)
		in.Status = &status
	}

	property, err := h.properties.Create(ctx, actor, in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("property created",
		zap.String("request_id", requestID),
		zap.String("property_id", property.ID.String()))

	_ = utils.WriteCreated(w, propertyToResponse(property))
}

// HandleUpdateProperty handles PUT /api/v1/properties/{id}
func (h *PropertyHandler) HandleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		h.logger.Error("missing user in context", zap.String("request_id", requestID))
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid property ID format", nil)
		return
	}

	var req UpdatePropertyRequest
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

	in := services.PropertyInput{
		Title:        utils.SanitizeText(req.Title),
		Description:  utils.SanitizeText(req.Description),
		AddressLine1: utils.SanitizeText(req.AddressLine1),
		AddressLine2: utils.SanitizeText(req.AddressLine2),
		City:         utils.SanitizeText(req.City),
		Postcode:     utils.NormalizePostcode(req.Postcode),
		PropertyType: models.PropertyType(req.PropertyType),
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		MonthlyRent:  req.MonthlyRent,
	}
	if req.Status != nil {
		status := models.PropertyStatus(*req.Status)
		in.Status = &status
	}

	property, err := h.properties.Update(ctx, actor, id, in)
	if err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("property updated",
		zap.String("request_id", requestID),
		zap.String("property_id", property.ID.String()))

	_ = utils.WriteOK(w, propertyToResponse(property))
}

// HandleDeleteProperty handles DELETE /api/v1/properties/{id}
func (h *PropertyHandler) HandleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	actor := middleware.GetUserFromContext(ctx)
	if actor == nil {
		h.logger.Error("missing user in context", zap.String("request_id", requestID))
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid property ID format", nil)
		return
	}

	if err := h.properties.Delete(ctx, actor, id); err != nil {
		HandleServiceError(w, err, h.logger)
		return
	}

	h.logger.Info("property deleted",
		zap.String("request_id", requestID),
		zap.String("property_id", id.String()))

	utils.WriteNoContent(w)
}

// propertyToResponse converts a property model to its API representation
func propertyToResponse(p *models.Property) PropertyResponse {
	return PropertyResponse{
		ID:           p.ID,
		LandlordID:   p.LandlordID,
		Title:        p.Title,
		Description:  p.Description,
		AddressLine1: p.AddressLine1,
		AddressLine2: p.AddressLine2,
		City:         p.City,
		Postcode:     p.Postcode,
		PropertyType: p.PropertyType,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		MonthlyRent:  p.MonthlyRent,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
