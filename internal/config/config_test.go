package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, "postgres://u:p@db:5432/app?sslmode=disable", cfg.DatabaseURL)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.Equal(t, 3, cfg.TxMaxRetries)
	assert.Equal(t, 10*time.Second, cfg.PaymentGatewayTimeout)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:3001"}, cfg.AllowedOrigins)
}

func TestLoad_DatabaseURLFromParts(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("POSTGRESQL_HOST", "pg")
	t.Setenv("POSTGRESQL_USER", "svc")
	t.Setenv("POSTGRESQL_PASSWORD", "secret")
	t.Setenv("POSTGRESQL_DBNAME", "market")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "postgres://svc:secret@pg:5432/market?sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_ProductionRequirements(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "short")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://example.com, https://admin.example.com")
	t.Setenv("PAYMENT_GATEWAY_URL", "https://pay.example.com")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("STORAGE_DRIVER", "memory")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("STORAGE_DRIVER", "postgres")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
}

func TestLoad_UnknownStorageDriver(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := Load()
	assert.Error(t, err)
}
