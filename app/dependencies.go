package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/AryanKumar02/EstateLink/auth"
	"github.com/AryanKumar02/EstateLink/config"
	"github.com/AryanKumar02/EstateLink/internal/observability"
	"github.com/AryanKumar02/EstateLink/middleware"
	"github.com/AryanKumar02/EstateLink/repositories"
	"github.com/AryanKumar02/EstateLink/repositories/postgres"
	"github.com/AryanKumar02/EstateLink/services"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config   *config.Config
	DB       *postgres.DB
	Logger   *zap.Logger
	Registry *prometheus.Registry
	Metrics  *observability.Metrics

	// Repository Factory
	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users      repositories.UserRepository
	Properties repositories.PropertyRepository
	Tenants    repositories.TenantRepository
	TxManager  repositories.TransactionManager

	// Services
	PropertyService *services.PropertyService
	TenantService   *services.TenantService

	// HTTP middleware
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// NewDependencies creates and wires up all application dependencies
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	// Initialize PostgreSQL
	if err := deps.initDatabase(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	deps.initRepositories()

	// Initialize metrics
	deps.initObservability(cfg)

	// Initialize auth middleware
	if err := deps.initAuth(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize auth: %w", err)
	}

	// Initialize domain services
	deps.initServices()

	// Initialize rate limiting
	deps.RateLimiter = middleware.NewRateLimiter(cfg.RateLimit, deps.Metrics, logger)

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// initDatabase initializes the PostgreSQL connection and applies pending
// schema migrations when configured to do so.
func (d *Dependencies) initDatabase(ctx context.Context, cfg *config.Config) error {
	factory, err := postgres.NewRepositoryFactory(cfg, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to create repository factory: %w", err)
	}

	d.RepoFactory = factory
	d.DB = factory.GetDB()

	// Test the connection
	if err := d.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if cfg.Database.RunMigrations {
		if err := factory.Migrate(cfg.Database.URL()); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Users = repos.Users
	d.Properties = repos.Properties
	d.Tenants = repos.Tenants
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

// initObservability creates the Prometheus registry. The metric set is only
// registered when metrics are enabled; the registry itself always exists so
// the /metrics endpoint can be mounted unconditionally.
func (d *Dependencies) initObservability(cfg *config.Config) {
	d.Registry = prometheus.NewRegistry()

	if cfg.Observability.MetricsEnabled {
		d.Metrics = observability.NewMetrics(d.Registry)
		d.Logger.Info("metrics collection enabled")
	}
}

// initAuth builds the token verifier and the auth middleware around it.
// The signing secret comes from configuration; nothing below this point
// reads it from the environment.
func (d *Dependencies) initAuth(cfg *config.Config) error {
	verifier, err := auth.NewVerifier(cfg.Auth.JWTSecret)
	if err != nil {
		return err
	}

	d.AuthMiddleware = middleware.NewAuthMiddleware(
		&tokenVerifierAdapter{verifier: verifier},
		d.Users,
		d.Metrics,
		d.Logger,
	)

	d.Logger.Info("auth middleware initialized")
	return nil
}

// initServices initializes the domain services
func (d *Dependencies) initServices() {
	d.PropertyService = services.NewPropertyService(d.Users, d.Properties, d.Tenants, d.TxManager, d.Logger)
	d.TenantService = services.NewTenantService(d.Tenants, d.Properties, d.TxManager, d.Logger)

	d.Logger.Info("services initialized")
}

// tokenVerifierAdapter adapts auth.Verifier to middleware.TokenVerifier
type tokenVerifierAdapter struct {
	verifier *auth.Verifier
}

func (a *tokenVerifierAdapter) Verify(ctx context.Context, token string) (*middleware.Claims, error) {
	parsed, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	return &middleware.Claims{
		UserID:    parsed.UserID,
		IssuedAt:  parsed.IssuedAt,
		ExpiresAt: parsed.ExpiresAt,
	}, nil
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RateLimiter != nil {
		d.RateLimiter.Stop()
	}

	// Close database connection
	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	// Sync logger
	if d.Logger != nil {
		_ = d.Logger.Sync()
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during shutdown: %v", errs)
	}

	return nil
}
