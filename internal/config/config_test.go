package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "MONGO_URI", "MONGO_DB", "JWT_SECRET", "JWT_EXPIRY",
		"MQTT_BROKER_URL", "TRIAGE_DELAY", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Empty(t, cfg.MongoURI)
	assert.Equal(t, "property_maintenance", cfg.MongoDB)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 2*time.Second, cfg.TriageDelay)
	assert.Equal(t, 10*time.Second, cfg.TriageTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("JWT_EXPIRY", "1h")
	t.Setenv("TRIAGE_DELAY", "500ms")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 500*time.Millisecond, cfg.TriageDelay)
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRY", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
}
