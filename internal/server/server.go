package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"inventory-api/internal/config"
	"inventory-api/internal/database"
	custommiddleware "inventory-api/internal/middleware"
	"inventory-api/internal/repository"
	"inventory-api/internal/service"
	"inventory-api/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Repositories groups the store handles injected into the services
type Repositories struct {
	Products  repository.ProductRepository
	Sales     repository.SaleRepository
	Purchases repository.PurchaseRepository
	Users     repository.UserRepository
}

// HealthChecker reports the status of a backing dependency
type HealthChecker interface {
	Health(ctx context.Context) map[string]string
}

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewServer wires the Postgres repositories into the HTTP stack. redisClient
// may be nil, which disables rate limiting.
func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	sqlDB := db.DB()
	repos := Repositories{
		Products:  repository.NewProductRepository(sqlDB),
		Sales:     repository.NewSaleRepository(sqlDB),
		Purchases: repository.NewPurchaseRepository(sqlDB),
		Users:     repository.NewUserRepository(sqlDB),
	}

	server := &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      NewRouter(cfg, logger, repos, db, redisClient),
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	return server
}

// NewRouter builds the middleware stack and registers every resource route
func NewRouter(cfg *config.Config, logger *zap.Logger, repos Repositories, health HealthChecker, redisClient *redis.Client) chi.Router {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack(cfg.Server.RequestTimeout) {
		router.Use(mw)
	}
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.Server.AllowedOrigins, cfg.Server.IsDevelopment()))

	if redisClient != nil {
		router.Use(custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "inventory_rate_limit",
		}, logger))
	}

	// Health check endpoint
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		stats := health.Health(r.Context())
		if stats["status"] != "up" {
			custommiddleware.RespondWithJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
				"status":   "degraded",
				"database": stats,
			})
			return
		}
		custommiddleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"status":   "ok",
			"database": stats,
		})
	})

	// Initialize services
	recordOpts := service.RecordOptions{VerifyTotals: cfg.Records.VerifyTotals}
	productService := service.NewProductService(repos.Products)
	saleService := service.NewSaleService(repos.Sales, recordOpts)
	purchaseService := service.NewPurchaseService(repos.Purchases, recordOpts)
	userService := service.NewUserService(repos.Users)

	// Register routes
	transport.NewProductHandler(productService, logger).RegisterRoutes(router)
	transport.NewSaleHandler(saleService, logger).RegisterRoutes(router)
	transport.NewPurchaseHandler(purchaseService, logger).RegisterRoutes(router)
	transport.NewUserHandler(userService, logger).RegisterRoutes(router)

	return router
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	// Close database connection
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	s.logger.Sync()
	return nil
}
