package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AryanKumar02/EstateLink/app"
	"github.com/AryanKumar02/EstateLink/handlers"
	"github.com/AryanKumar02/EstateLink/internal/observability"
	"github.com/AryanKumar02/EstateLink/middleware"
	"github.com/AryanKumar02/EstateLink/models"
	"github.com/AryanKumar02/EstateLink/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.Instrument(deps.Metrics))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	var sqlDB *sql.DB
	if deps.DB != nil {
		sqlDB = deps.DB.DB
	}
	healthHandler := handlers.NewHealthHandler(sqlDB, deps.Logger)
	propertyHandler := handlers.NewPropertyHandler(deps.PropertyService, deps.Logger)
	tenantHandler := handlers.NewTenantHandler(deps.TenantService, deps.Logger)
	userHandler := handlers.NewUserHandler(deps.Users, deps.Logger)

	// Health and metrics endpoints
	r.Get("/healthz", healthHandler.HandleHealth)
	r.Get("/readyz", healthHandler.HandleReadiness)
	r.Method(http.MethodGet, "/metrics", observability.Handler(deps.Registry))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(deps.AuthMiddleware.Protect)
		r.Use(deps.RateLimiter.Limit)

		// User directory
		r.Route("/users", func(r chi.Router) {
			r.Get("/me", userHandler.HandleMe)
			r.With(deps.AuthMiddleware.RestrictTo(models.RoleAdmin)).Get("/", userHandler.HandleListUsers)
			r.With(deps.AuthMiddleware.RestrictTo(models.RoleAdmin)).Get("/{id}", userHandler.HandleGetUser)
		})

		// Property management
		r.Route("/properties", func(r chi.Router) {
			r.Get("/", propertyHandler.HandleListProperties)
			r.Get("/{id}", propertyHandler.HandleGetProperty)

			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RestrictTo(models.RoleLandlord, models.RoleAdmin))
				r.Post("/", propertyHandler.HandleCreateProperty)
				r.Put("/{id}", propertyHandler.HandleUpdateProperty)
				r.Delete("/{id}", propertyHandler.HandleDeleteProperty)
			})
		})

		// Tenant management
		r.Route("/tenants", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(deps.AuthMiddleware.RestrictTo(models.RoleLandlord, models.RoleAdmin))
				r.Get("/", tenantHandler.HandleListTenants)
				r.Get("/{id}", tenantHandler.HandleGetTenant)
				r.Post("/", tenantHandler.HandleCreateTenant)
				r.Put("/{id}", tenantHandler.HandleUpdateTenant)
			})

			r.With(deps.AuthMiddleware.RestrictTo(models.RoleAdmin)).Delete("/{id}", tenantHandler.HandleDeleteTenant)
		})
	})

	// 404 handler
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "Endpoint not found")
	})

	return r
}
