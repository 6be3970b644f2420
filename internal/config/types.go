package config

import "time"

// Store drivers understood by StoreConfig.Driver.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config holds all configuration for the application.
type Config struct {
	Port           string
	LogLevel       string
	UpdateInterval time.Duration
	BrawlStars     BrawlStarsConfig
	Store          StoreConfig
	Slack          SlackConfig
}

type BrawlStarsConfig struct {
	Token   string
	ClubTag string
	BaseURL string
}

type StoreConfig struct {
	Driver string
	Mongo  MongoConfig
	// DBName is the local SQLite file used when Driver is "sqlite".
	DBName string
	Turso  TursoConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
