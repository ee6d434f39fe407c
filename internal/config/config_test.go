package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/airvista/travelsample/internal/config"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TRAVEL_JWT_SECRET", "test-secret")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "travel_sample", cfg.Database.Name)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Kafka.EnableEvents)
	assert.Equal(t, "travel.bookings", cfg.Kafka.BookingTopic)
	assert.Equal(t, 24, cfg.JWT.ExpirationHours)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("TRAVEL_JWT_SECRET", "test-secret")
	t.Setenv("TRAVEL_SERVER_PORT", "9090")
	t.Setenv("TRAVEL_DATABASE_HOST", "db.internal")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoadConfigRequiresJWTSecret(t *testing.T) {
	t.Setenv("TRAVEL_JWT_SECRET", "")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	d := config.DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "travel", Password: "secret",
		Name: "travel_sample", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=travel password=secret dbname=travel_sample sslmode=disable",
		d.DSN())
}
