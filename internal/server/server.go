package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"olgish-cakes/internal/cache"
	"olgish-cakes/internal/config"
	"olgish-cakes/internal/database"
	"olgish-cakes/internal/metrics"
	custommiddleware "olgish-cakes/internal/middleware"
	"olgish-cakes/internal/repository"
	"olgish-cakes/internal/schema"
	"olgish-cakes/internal/service"
	"olgish-cakes/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

// NewSchemaService wires repositories, builder, validator and cache into a
// SchemaService. redisClient may be nil, which disables caching.
func NewSchemaService(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) service.SchemaService {
	settings := cfg.Settings()

	var opts []service.Option
	if redisClient != nil {
		ttl := time.Duration(cfg.Schema.CacheTTLSeconds) * time.Second
		opts = append(opts, service.WithCache(cache.NewSchemaCache(redisClient, cache.KeyPrefix, ttl)))
	}

	return service.NewSchemaService(
		repository.NewCakeRepository(db.DB()),
		repository.NewCategoryRepository(db.DB()),
		repository.NewReviewRepository(db.DB()),
		schema.NewBuilder(settings),
		schema.NewValidator(settings, logger),
		logger,
		opts...,
	)
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	router := chi.NewRouter()

	for _, mw := range custommiddleware.DefaultMiddlewareStack() {
		router.Use(mw)
	}
	router.Use(custommiddleware.LoggingMiddleware(logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(logger))
	router.Use(custommiddleware.CORSMiddleware([]string{cfg.Server.BaseURL}, cfg.Server.Env == "development"))

	server := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	router.Get("/health", server.health)
	router.Handle("/metrics", metrics.Handler())

	schemaService := NewSchemaService(cfg, logger, db, redisClient)
	schemaHandler := transport.NewSchemaHandler(schemaService, logger)

	authMiddleware := custommiddleware.AuthMiddleware(cfg.JWT.Secret, logger)

	var publicMiddleware func(http.Handler) http.Handler
	if redisClient != nil {
		publicMiddleware = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            time.Duration(cfg.RateLimit.WindowSeconds) * time.Second,
			KeyPrefix:         cache.KeyPrefix + ":ratelimit",
		}, logger)
	}

	schemaHandler.RegisterRoutes(router, authMiddleware, publicMiddleware)

	server.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	dbHealth := s.db.Health(ctx)
	status := http.StatusOK
	if dbHealth["status"] != "up" {
		status = http.StatusServiceUnavailable
	}

	redisStatus := "disabled"
	if s.redis != nil {
		pingCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := s.redis.Ping(pingCtx).Err(); err != nil {
			redisStatus = "down"
		} else {
			redisStatus = "up"
		}
	}

	custommiddleware.RespondWithJSON(w, status, map[string]interface{}{
		"status":   http.StatusText(status),
		"database": dbHealth,
		"redis":    redisStatus,
	})
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

	s.logger.Sync()
	return nil
}
