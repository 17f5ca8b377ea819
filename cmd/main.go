package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"product-showcase-service/internal/api"
	"product-showcase-service/internal/auth"
	"product-showcase-service/internal/cache"
	"product-showcase-service/internal/config"
	"product-showcase-service/internal/logging"
	"product-showcase-service/internal/monitoring"
	"product-showcase-service/internal/service"
	"product-showcase-service/internal/store"
)

const defaultAppName = "ProductShowcaseService"

// closableStore is a Store that owns resources released on shutdown.
type closableStore interface {
	store.Store
	Close() error
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg(".env file not found, relying on system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat, cfg.AppEnv)
	logger := logging.NewLogger("main")
	logger.Info().
		Str("app_env", cfg.AppEnv).
		Str("store_driver", cfg.Store.Driver).
		Msg("Starting service")

	// Prices go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	ctx := context.Background()

	// --- Metrics ---
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := monitoring.New(registry)

	// --- Store ---
	entityStore, db, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize store")
	}
	if cfg.Store.SeedDemo {
		if err := store.SeedDemo(ctx, entityStore, time.Now().UTC()); err != nil {
			logger.Fatal().Err(err).Msg("Failed to seed demo catalog")
		}
		logger.Info().Msg("Demo catalog seeded")
	}

	// --- Product cache ---
	var products store.ProductReader = entityStore
	var rdb *redis.Client
	if cfg.Redis.URL != "" {
		rdb, err = cache.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		products = cache.NewProductCache(entityStore, rdb, cfg.Redis.CacheTTL, logging.NewLogger("cache"), metrics)
		logger.Info().Dur("ttl", cfg.Redis.CacheTTL).Msg("Redis product cache enabled")
	}

	svc := service.New(products, entityStore, entityStore,
		service.WithLogger(logging.NewLogger("service")),
		service.WithMetrics(metrics),
		service.WithPhoneRegion(cfg.Quote.PhoneRegion),
	)

	if cfg.Auth.JWTSecret == "" {
		logger.Warn().Msg("AUTH_JWT_SECRET is empty: every caller is anonymous and review submission is disabled")
	}
	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, auth.WithTrustedRoleHeader(cfg.Auth.TrustRoleHeader))
	limiter := api.NewIPRateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst, metrics)

	// --- Initialize API Handlers ---
	httpAPIHandler := api.NewHTTPHandler(svc, verifier, limiter, logging.NewLogger("http"))
	grpcAPIHandler := api.NewGRPCHandler(svc, logging.NewLogger("grpc"))

	// --- Setup & Start HTTP Server ---
	httpRouter := chi.NewRouter()
	setupBaseMiddleware(httpRouter, cfg, metrics)
	registerHealthCheck(httpRouter, db, rdb)
	httpRouter.Method(http.MethodGet, "/metrics", metrics.Handler())
	httpAPIHandler.RegisterRoutes(httpRouter)

	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      httpRouter,
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}

	go func() {
		logger.Info().Str("port", cfg.HttpServer.Port).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server ListenAndServe error")
		}
		logger.Info().Msg("HTTP server has stopped")
	}()

	// --- Setup & Start gRPC Server ---
	grpcServer := setupGRPCServer(grpcAPIHandler, verifier)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		logger.Fatal().Err(err).Str("port", cfg.GrpcServer.Port).Msg("Failed to listen for gRPC")
	}

	go func() {
		logger.Info().Str("port", cfg.GrpcServer.Port).Msg("gRPC server listening")
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			logger.Fatal().Err(err).Msg("gRPC server Serve error")
		}
		logger.Info().Msg("gRPC server has stopped")
	}()

	// --- Graceful Shutdown ---
	shutdownComplete := make(chan struct{})
	go waitForShutdown(httpServer, grpcServer, entityStore, rdb, shutdownComplete)

	<-shutdownComplete
	logger.Info().Msg("Service shutdown sequence finished")
}

// openStore returns the configured store and, for Postgres, its pool for health checks.
func openStore(ctx context.Context, cfg *config.Config) (closableStore, *sql.DB, error) {
	if cfg.Store.Driver != config.DriverPostgres {
		return store.NewMemoryStore(), nil, nil
	}

	db, err := sql.Open("postgres", cfg.Postgres.DSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxOpenConns)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	storeLog := logging.NewLogger("store")
	if cfg.Postgres.RunMigrations {
		if err := store.Migrate(ctx, db, storeLog); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	storeLog.Info().Msg("Database connection established and configured successfully")
	return store.NewPostgresStore(db, storeLog), db, nil
}

func setupBaseMiddleware(router *chi.Mux, cfg *config.Config, metrics *monitoring.Metrics) {
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.RequestLogger(logging.NewLogger("http")))
	router.Use(metrics.Middleware)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(cfg.HttpServer.TimeoutRequest))
}

func registerHealthCheck(router *chi.Mux, db *sql.DB, rdb *redis.Client) {
	healthPath := "/api/v1/healthz"
	router.Get(healthPath, func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		payload := map[string]interface{}{
			"status":      "healthy",
			"serviceName": defaultAppName,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}
		if db != nil {
			payload["database"] = "healthy"
			if err := db.PingContext(ctx); err != nil {
				payload["database"] = "unhealthy"
				log.Warn().Err(err).Msg("Health check DB ping failed")
			}
		}
		if rdb != nil {
			payload["cache"] = "healthy"
			if err := rdb.Ping(ctx).Err(); err != nil {
				payload["cache"] = "unhealthy"
				log.Warn().Err(err).Msg("Health check Redis ping failed")
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(payload)
	})
}

func setupGRPCServer(grpcAPIHandler *api.GRPCHandler, verifier *auth.Verifier) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(
		api.LoggingUnaryInterceptor(logging.NewLogger("grpc")),
		api.AuthUnaryInterceptor(verifier),
	))

	api.RegisterProductShowcaseServer(s, grpcAPIHandler)
	grpc_health_v1.RegisterHealthServer(s, health.NewServer())
	reflection.Register(s)
	log.Info().Msg("gRPC services registered")

	return s
}

func waitForShutdown(
	httpServer *http.Server,
	grpcServer *grpc.Server,
	entityStore closableStore,
	rdb *redis.Client,
	shutdownComplete chan struct{},
) {
	defer close(shutdownComplete)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-sigChan
	log.Info().Str("signal", receivedSignal.String()).Msg("Starting graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server graceful shutdown failed")
	} else {
		log.Info().Msg("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		log.Info().Msg("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		log.Warn().Err(shutdownCtx.Err()).Msg("gRPC server graceful shutdown timed out, forcing stop")
		grpcServer.Stop()
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("Error closing Redis client")
		}
	}
	if err := entityStore.Close(); err != nil {
		log.Warn().Err(err).Msg("Error closing store")
	}

	log.Info().Msg("Graceful shutdown sequence completed")
}
