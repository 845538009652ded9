package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config is the whole runtime configuration, read once at startup from the environment
// (after godotenv has merged any .env file). It is never mutated afterwards.
type Config struct {
	Env         string `env:"APP_ENV" env-default:"local"`
	ServerPort  string `env:"SERVER_PORT" env-default:"8080"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`
	StoreDriver string `env:"STORE_DRIVER" env-default:"postgres"`

	JWT       JWTConfig
	DB        DBConfig
	Auth      AuthConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// JWTConfig holds the token signing settings
type JWTConfig struct {
	SecretKey string        `env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" env-default:"1h"`
}

// AuthConfig holds account policy settings
type AuthConfig struct {
	// InitialAdminEmail is registered with the admin role instead of user.
	InitialAdminEmail string `env:"INITIAL_ADMIN_EMAIL"`
	// RequireAdminForMutations puts the admin role gate in front of block/unblock/delete.
	RequireAdminForMutations bool `env:"REQUIRE_ADMIN_FOR_MUTATIONS" env-default:"false"`
	BcryptCost               int  `env:"BCRYPT_COST" env-default:"10"`
}

// RedisConfig holds the optional Redis connection used for rate limiting.
// An empty Addr disables Redis and the in-process limiter is used instead.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

// RateLimitConfig bounds the number of register/login attempts per client
type RateLimitConfig struct {
	Enabled  bool          `env:"RATE_LIMIT_ENABLED" env-default:"true"`
	Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"10"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
	Prefix   string        `env:"RATE_LIMIT_PREFIX" env-default:"rl"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the cross-field rules cleanenv tags cannot express
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return fmt.Errorf("JWT_SECRET_KEY not set in environment")
	}
	switch c.StoreDriver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if err := c.DB.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q (want %q or %q)", c.StoreDriver, StoreDriverPostgres, StoreDriverMemory)
	}
	if c.JWT.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.JWT.TokenTTL)
	}
	if c.RateLimit.Enabled && (c.RateLimit.Requests < 1 || c.RateLimit.Window <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive when rate limiting is enabled")
	}
	return nil
}
