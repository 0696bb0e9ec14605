package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"rsm-commerce/internal/config"
	custommiddleware "rsm-commerce/internal/middleware"
	"rsm-commerce/internal/payment"
	"rsm-commerce/internal/repository"
	"rsm-commerce/internal/service"
	"rsm-commerce/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     *sql.DB
	redis  *redis.Client
}

// NewServer wires repositories, services and handlers into an HTTP server.
// redisClient may be nil, in which case rate limiting is disabled.
func NewServer(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, gateway payment.Gateway) *Server {
	router := newRouter(cfg, logger, db, redisClient, gateway)

	return &Server{
		Server: &http.Server{
			Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}
}

func newRouter(cfg *config.Config, logger *zap.Logger, db *sql.DB, redisClient *redis.Client, gateway payment.Gateway) chi.Router {
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))

	router.Get("/health", healthHandler(db, redisClient))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)
	productRepo := repository.NewProductRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	occasionRepo := repository.NewOccasionRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	// Services
	userService := service.NewUserService(userRepo, refreshTokenRepo, cfg.JWT)
	catalogService := service.NewCatalogService(productRepo, reviewRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, userRepo, productRepo, gateway)
	statsService := service.NewStatsService(statsRepo, userRepo, reviewRepo)
	occasionService := service.NewOccasionService(occasionRepo)
	blogService := service.NewBlogService(blogRepo)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)
	window := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
	authLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            window,
		KeyPrefix:         "rate_limit:auth",
	}, logger)
	checkoutLimit := custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
		RequestsPerWindow: cfg.RateLimit.Requests,
		Window:            window,
		KeyPrefix:         "rate_limit:checkout",
	}, logger)

	transport.NewUserHandler(userService, logger).RegisterRoutes(router, authMiddleware, authLimit)
	transport.NewOrderHandler(orderService, logger).RegisterRoutes(router, authMiddleware, checkoutLimit)
	transport.NewProductHandler(catalogService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewReviewHandler(reviewService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewStatsHandler(statsService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewOccasionHandler(occasionService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewBlogHandler(blogService, logger).RegisterRoutes(router, authMiddleware)

	return router
}

// healthHandler reports the store and cache status. Redis being absent is
// not an error since the API runs without rate limiting in that case.
func healthHandler(db *sql.DB, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		status := map[string]string{"status": "ok", "database": "up", "redis": "disabled"}
		code := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			status["status"] = "degraded"
			status["database"] = "down"
			code = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				status["redis"] = "down"
			} else {
				status["redis"] = "up"
			}
		}

		custommiddleware.RespondWithJSON(w, code, status)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
