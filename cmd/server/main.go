package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user_directory/internal/config"
	"user_directory/internal/handler"
	"user_directory/internal/logger"
	"user_directory/internal/metrics"
	"user_directory/internal/ratelimit"
	"user_directory/internal/repository"
	"user_directory/internal/service"
	"user_directory/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", logger.Err(err))
		os.Exit(1)
	}

	log := logger.New(cfg.Env, cfg.LogLevel, os.Stdout)
	if envErr != nil {
		log.Info("no .env file found, relying on environment variables")
	}
	if cfg.Env != "local" && cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Credential store ---
	userRepo, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", logger.Err(err))
		os.Exit(1)
	}
	defer closeStore()

	// --- Rate limiter ---
	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	// --- Metrics ---
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Initialize Services ---
	jwtUtil := utils.NewJWTUtil(cfg.JWT.SecretKey, cfg.JWT.TokenTTL)
	authService := service.NewAuthService(userRepo, jwtUtil, service.AuthOptions{
		InitialAdminEmail: cfg.Auth.InitialAdminEmail,
		BcryptCost:        cfg.Auth.BcryptCost,
	}, log)
	accountService := service.NewAccountService(userRepo, log)

	router := handler.NewRouter(handler.RouterConfig{
		AuthService:              authService,
		AccountService:           accountService,
		Limiter:                  limiter,
		Ping:                     userRepo.Ping,
		Logger:                   log,
		Metrics:                  m,
		Gatherer:                 reg,
		RequireAdminForMutations: cfg.Auth.RequireAdminForMutations,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", slog.String("port", cfg.ServerPort), slog.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen failed", logger.Err(err))
			stop()
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", logger.Err(err))
	}

	log.Info("server exiting")
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (repository.UserRepository, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn("using in-memory store, data is lost on restart")
		return repository.NewMemoryUserRepository(), func() {}, nil
	}

	dbPool, err := config.ConnectDB(ctx, cfg.DB, log)
	if err != nil {
		return nil, nil, err
	}
	if err := config.Migrate(ctx, dbPool, log); err != nil {
		dbPool.Close()
		return nil, nil, err
	}
	return repository.NewUserRepository(dbPool), dbPool.Close, nil
}

// newLimiter prefers Redis so limits hold across instances and falls back to an
// in-process limiter when Redis is not configured or unreachable.
func newLimiter(ctx context.Context, cfg *config.Config, log *slog.Logger) (ratelimit.Limiter, func()) {
	if !cfg.RateLimit.Enabled {
		return nil, func() {}
	}
	memory := func() (ratelimit.Limiter, func()) {
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window), func() {}
	}
	if cfg.Redis.Addr == "" {
		return memory()
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unavailable, using in-process rate limiter", slog.String("addr", cfg.Redis.Addr), logger.Err(err))
		_ = rdb.Close()
		return memory()
	}

	log.Info("connected to redis", slog.String("addr", cfg.Redis.Addr))
	return ratelimit.NewRedisLimiter(rdb, cfg.RateLimit.Prefix, cfg.RateLimit.Requests, cfg.RateLimit.Window),
		func() { _ = rdb.Close() }
}
