package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	assert.Equal(t, "taskmarket", cfg.Mongo.Database)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.DedupTTL)
	assert.Equal(t, 4, cfg.Settlement.Workers)
	assert.Empty(t, cfg.Payment.CallbackSecret)

	assert.Error(t, cfg.Validate(), "JWT secret is required")
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":                    "9090",
		"ENV":                     "production",
		"JWT_SECRET":              "s3cret",
		"MONGO_DB":                "market_test",
		"MONGO_TIMEOUT":           "3s",
		"REDIS_DB":                "2",
		"REDIS_DEDUP_TTL":         "1h",
		"PAYMENT_CALLBACK_SECRET": "cb",
		"SETTLEMENT_WORKERS":      "8",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "market_test", cfg.Mongo.Database)
	assert.Equal(t, 3*time.Second, cfg.Mongo.Timeout)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, time.Hour, cfg.Redis.DedupTTL)
	assert.Equal(t, "cb", cfg.Payment.CallbackSecret)
	assert.Equal(t, 8, cfg.Settlement.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFrom_InvalidValue(t *testing.T) {
	_, err := LoadFrom(context.Background(), envconfig.MapLookuper(map[string]string{
		"SETTLEMENT_WORKERS": "many",
	}))
	assert.Error(t, err)
}
