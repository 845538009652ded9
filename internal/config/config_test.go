package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setDBEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "users")
}

func TestLoad_Defaults(t *testing.T) {
	setDBEnv(t)
	t.Setenv("JWT_SECRET_KEY", "s3cr3t")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, "s3cr3t", cfg.JWT.SecretKey)
	assert.False(t, cfg.Auth.RequireAdminForMutations)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, time.Minute, cfg.RateLimit.Window)
	assert.Equal(t, "host=localhost port=5432 user=postgres password=secret dbname=users sslmode=disable", cfg.DB.DSN())
}

func TestLoad_MissingSecretIsFatal(t *testing.T) {
	setDBEnv(t)
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_MissingDBConfig(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cr3t")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_NAME", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_HOST")
}

func TestLoad_MemoryDriverSkipsDBConfig(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cr3t")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("DB_HOST", "")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("REQUIRE_ADMIN_FOR_MUTATIONS", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TokenTTL)
	assert.True(t, cfg.Auth.RequireAdminForMutations)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "s3cr3t")
	t.Setenv("STORE_DRIVER", "mysql")

	_, err := Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestConfig_ValidateRejectsNonPositiveTTL(t *testing.T) {
	cfg := Config{StoreDriver: StoreDriverMemory, JWT: JWTConfig{SecretKey: "x", TokenTTL: 0}}
	assert.Error(t, cfg.Validate())
}

func TestDBConfig_Validate(t *testing.T) {
	full := DBConfig{Host: "localhost", Port: "5432", User: "postgres", Name: "users"}

	t.Run("password is optional", func(t *testing.T) {
		assert.NoError(t, full.Validate())
	})

	t.Run("error names only the checked variables", func(t *testing.T) {
		missing := full
		missing.Host = ""
		err := missing.Validate()
		require.Error(t, err)
		for _, name := range []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_NAME"} {
			assert.Contains(t, err.Error(), name)
		}
		assert.NotContains(t, err.Error(), "DB_PASSWORD")
	})
}
