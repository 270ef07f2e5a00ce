package main

import (
	"context"
	"time"

	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/cache"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Dependencies are the process-scoped resources the app is built from.
// Publisher and Cache are optional.
type Dependencies struct {
	Config    *config.Config
	DB        *gorm.DB
	Log       zerolog.Logger
	Publisher services.EventPublisher
	Cache     cache.Cache
}

// NewApp wires repositories, services and handlers into a Fiber app and
// creates the configured administrator.
func NewApp(ctx context.Context, deps Dependencies) (*fiber.App, error) {
	cfg := deps.Config

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	productRepo := repositories.NewGORMProductRepository(deps.DB)
	favoriteRepo := repositories.NewGORMFavoriteRepository(deps.DB)
	cartRepo := repositories.NewGORMCartRepository(deps.DB)

	// --- Services ---
	var events *services.EventEmitter
	if deps.Publisher != nil {
		events = services.NewEventEmitter(deps.Publisher, deps.Log)
	}
	credentials := services.NewCredentialStore(cfg.Auth.BcryptCost)
	tokens := services.NewTokenService(cfg.Auth.JWTSecret)
	authService := services.NewAuthService(userRepo, credentials, tokens)
	userService := services.NewUserService(userRepo, credentials, events)
	favoriteService := services.NewFavoriteService(favoriteRepo, productRepo, events)
	cartService := services.NewCartService(cartRepo)

	var catalog services.ProductCatalog = services.NewProductService(productRepo, events)
	if deps.Cache != nil {
		catalog = services.NewCachedProductService(catalog, deps.Cache, cfg.ProductCacheTTL, deps.Log)
	}

	if cfg.Admin.Enabled() {
		admin, err := userService.EnsureAdmin(ctx, cfg.Admin)
		if err != nil {
			return nil, err
		}
		deps.Log.Info().Str("user_id", admin.ID).Str("username", admin.Username).Msg("admin account ready")
	}

	// --- Fiber App ---
	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		ErrorHandler:          handlers.ErrorHandler(deps.Log),
		DisableStartupMessage: true,
	})

	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(deps.Log))
	app.Use(middleware.Metrics())
	app.Use(recover.New())

	app.Get("/health", healthHandler(deps.DB))
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	guards := handlers.Guards{
		Auth:  middleware.AuthRequired(authService),
		Owner: middleware.RequireOwnership("userId"),
		Admin: middleware.RequireRole(authService, models.RoleAdmin),
	}
	for _, h := range []handlers.RouteRegistrar{
		handlers.NewAuthHandler(userService, authService),
		handlers.NewUserHandler(userService),
		handlers.NewFavoriteHandler(favoriteService),
		handlers.NewCartHandler(cartService),
		handlers.NewProductHandler(catalog),
	} {
		h.RegisterRoutes(app, guards)
	}

	return app, nil
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, database := "healthy", "up"
		code := fiber.StatusOK

		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			status, database = "unhealthy", "down"
			code = fiber.StatusServiceUnavailable
		}

		return c.Status(code).JSON(fiber.Map{
			"status":   status,
			"database": database,
			"time":     time.Now().Format(time.RFC3339),
		})
	}
}
