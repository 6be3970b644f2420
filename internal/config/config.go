package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const defaultUpdateInterval = 15 * time.Minute

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	// A helper function to get a required env var. It will fail if the env var is not set.
	getEnv := func(key string) string {
		if value, ok := os.LookupEnv(key); ok && value != "" {
			return value
		}
		log.Fatalf("Error: Required environment variable %s is not set.", key)
		return "" // This line is never reached
	}

	mongoHost := getEnvOrDefault("MONGODB_HOST", "0.0.0.0")
	mongoPort := getEnvOrDefault("MONGODB_PORT", "27017")

	cfg := Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		UpdateInterval: parseInterval(getEnvOrDefault("UPDATE_INTERVAL", "")),
		BrawlStars: BrawlStarsConfig{
			Token:   getEnv("BRAWLSTARS_API_TOKEN"),
			ClubTag: getEnv("BRAWLSTARS_CLUB_TAG"),
			BaseURL: getEnvOrDefault("BRAWLSTARS_BASE_URL", "https://api.brawlstars.com/v1"),
		},
		Store: StoreConfig{
			Driver: getEnvOrDefault("STORE_DRIVER", DriverMongo),
			Mongo: MongoConfig{
				URI:      getEnvOrDefault("MONGODB_URI", fmt.Sprintf("mongodb://%s:%s/", mongoHost, mongoPort)),
				Database: getEnvOrDefault("MONGODB_DATABASE", "brawlboss"),
			},
			DBName: getEnvOrDefault("DB_NAME", "brawlboss.db"),
			Turso: TursoConfig{
				PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
				AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
			},
		},
		Slack: SlackConfig{
			Token:         os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID:     os.Getenv("SLACK_CHANNEL_ID"),
			SigningSecret: os.Getenv("SLACK_SIGNING_SECRET"),
		},
	}

	switch cfg.Store.Driver {
	case DriverMongo, DriverSQLite:
	default:
		log.Fatalf("Error: STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverSQLite, cfg.Store.Driver)
	}
	return cfg
}

func getEnvOrDefault(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return defaultUpdateInterval
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		log.Warn("Invalid UPDATE_INTERVAL, using default", "value", raw, "default", defaultUpdateInterval)
		return defaultUpdateInterval
	}
	return d
}
