package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"user_directory/internal/migrations"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// DBConfig holds database connection parameters
type DBConfig struct {
	Host          string        `env:"DB_HOST"`
	Port          string        `env:"DB_PORT" env-default:"5432"`
	User          string        `env:"DB_USER"`
	Password      string        `env:"DB_PASSWORD"`
	Name          string        `env:"DB_NAME"`
	SSLMode       string        `env:"DB_SSLMODE" env-default:"disable"`
	MaxRetries    int           `env:"DB_CONNECT_RETRIES" env-default:"5"`
	RetryInterval time.Duration `env:"DB_CONNECT_RETRY_INTERVAL" env-default:"5s"`
}

// Validate ensures the connection parameters are present
func (c DBConfig) Validate() error {
	if c.Host == "" || c.Port == "" || c.User == "" || c.Name == "" {
		return fmt.Errorf("database environment variables not set (DB_HOST, DB_PORT, DB_USER, DB_NAME)")
	}
	return nil
}

// DSN renders the libpq style connection string
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// ConnectDB establishes a connection to the PostgreSQL database
func ConnectDB(ctx context.Context, cfg DBConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool
	var err error

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	for i := 0; i < maxRetries; i++ {
		pool, err = pgxpool.New(ctx, cfg.DSN())
		if err == nil {
			err = pool.Ping(ctx)
			if err == nil {
				logger.Info("connected to PostgreSQL", slog.String("host", cfg.Host), slog.String("db", cfg.Name))
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn("failed to connect to database",
			slog.Int("attempt", i+1),
			slog.Int("max_attempts", maxRetries),
			slog.Duration("retry_in", cfg.RetryInterval),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, fmt.Errorf("unable to connect to database after %d attempts: %w", maxRetries, err)
}

// Migrate applies the embedded goose migrations
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{logger: logger.With(slog.String("component", "goose"))})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("unable to set migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("unable to apply migrations: %w", err)
	}

	logger.Info("migrations applied")
	return nil
}

type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}
