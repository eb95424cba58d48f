// Package config loads service configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all runtime settings. Empty MongoURI disables the persistence
// mirror; empty MQTTBroker disables the event bridge.
type Config struct {
	Port string

	MongoURI string
	MongoDB  string

	JWTSecret string
	JWTExpiry time.Duration

	MQTTBroker   string
	MQTTClientID string

	TriageDelay   time.Duration
	TriageTimeout time.Duration

	AdminName    string
	AdminContact string

	LogLevel string
}

// Load reads configuration from the environment, first merging a .env file
// if one is present.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug("Loaded environment from .env")
	}

	return Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      os.Getenv("MONGO_URI"),
		MongoDB:       getEnv("MONGO_DB", "property_maintenance"),
		JWTSecret:     getEnv("JWT_SECRET", "default-secret-key-change-in-production"),
		JWTExpiry:     getDuration("JWT_EXPIRY", 24*time.Hour),
		MQTTBroker:    os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:  getEnv("MQTT_CLIENT_ID", "property-maintenance-api"),
		TriageDelay:   getDuration("TRIAGE_DELAY", 2*time.Second),
		TriageTimeout: getDuration("TRIAGE_TIMEOUT", 10*time.Second),
		AdminName:     getEnv("ADMIN_NAME", "Property Management"),
		AdminContact:  getEnv("ADMIN_CONTACT", "admin@property.example.com"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		log.WithField("key", key).WithError(err).Warn("Invalid duration, using default")
		return fallback
	}
	return parsed
}
