package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AryanKumar02/EstateLink/middleware"
	"github.com/AryanKumar02/EstateLink/models"
	"github.com/AryanKumar02/EstateLink/repositories"
	"github.com/AryanKumar02/EstateLink/services"
	"github.com/AryanKumar02/EstateLink/utils"
)

// UserResponse represents a user in API responses
type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      models.UserRole `json:"role"`
	Active    bool            `json:"active"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

// UserListResponse wraps a page of users
type UserListResponse struct {
	Items  []UserResponse `json:"items"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// UserHandler handles user-related HTTP requests. Users are provisioned by
// the external user-management service, so this handler only reads them.
type UserHandler struct {
	users  repositories.UserRepository
	logger *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(users repositories.UserRepository, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// HandleMe handles GET /api/v1/users/me
// Returns the authenticated user already resolved by the auth middleware
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		_ = utils.WriteUnauthorized(w, "")
		return
	}

	_ = utils.WriteOK(w, userToResponse(user))
}

// HandleListUsers handles GET /api/v1/users
func (h *UserHandler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	var role *models.UserRole
	if raw := r.URL.Query().Get("role"); raw != "" {
		ur := models.UserRole(raw)
		if !ur.Valid() {
			_ = utils.WriteBadRequest(w, "Invalid role filter", nil)
			return
		}
		role = &ur
	}

	var active *bool
	if raw := r.URL.Query().Get("active"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			_ = utils.WriteBadRequest(w, "Invalid active filter", nil)
			return
		}
		active = &parsed
	}

	limit, offset, err := parsePagination(r)
	if err != nil {
		_ = utils.WriteBadRequest(w, err.Error(), nil)
		return
	}
	limit, offset = services.ClampPage(limit, offset)

	users, total, err := h.users.List(ctx, repositories.UserFilter{
		Role:   role,
		Active: active,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.logger.Error("failed to list users",
			zap.String("request_id", requestID),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	items := make([]UserResponse, len(users))
	for i, u := range users {
		items[i] = userToResponse(u)
	}

	_ = utils.WriteOK(w, UserListResponse{
		Items:  items,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// HandleGetUser handles GET /api/v1/users/{id}
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestIDFromContext(ctx)

	id, err := parseIDParam(r, "id")
	if err != nil {
		_ = utils.WriteBadRequest(w, "Invalid user ID format", nil)
		return
	}

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			_ = utils.WriteNotFound(w, "User not found")
			return
		}
		h.logger.Error("failed to fetch user",
			zap.String("request_id", requestID),
			zap.String("user_id", id.String()),
			zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	_ = utils.WriteOK(w, userToResponse(user))
}

// userToResponse converts a user model to its API representation
func userToResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
