// Path: internal/config/config.go
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Snapshots SnapshotConfig
	Arena     ArenaConfig
	Refresher RefresherConfig
}

// ServerConfig holds the API server settings, including the caller-side
// rate limiter that guards /api/projects.
type ServerConfig struct {
	Port              string   `mapstructure:"port"`
	RequestsPerSecond int      `mapstructure:"requests_per_second"`
	BurstLimit        int      `mapstructure:"burst_limit"`
	AllowedOrigins    []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the MongoDB connection settings for the daemon's
// last-known-good project store.
type DatabaseConfig struct {
	URI        string `mapstructure:"uri"`
	Name       string `mapstructure:"name"`
	Collection string `mapstructure:"collection"`
}

// SnapshotConfig holds the SQLite settings for the report tool.
type SnapshotConfig struct {
	Path string `mapstructure:"path"`
}

// ArenaConfig holds settings for the upstream arena API client.
type ArenaConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	PublicURL         string `mapstructure:"public_url"`
	HackathonID       int    `mapstructure:"hackathon_id"`
	PageLimit         int    `mapstructure:"page_limit"`
	RequestsPerSecond int    `mapstructure:"requests_per_second"`
	BurstLimit        int    `mapstructure:"burst_limit"`
	MaxRetries        int    `mapstructure:"max_retries"`
	BackoffBaseMillis int    `mapstructure:"backoff_base_millis"`
}

// RefresherConfig holds settings for the periodic dataset refresh.
type RefresherConfig struct {
	IntervalMinutes int `mapstructure:"interval_minutes"`
}

// Load loads the configuration from file and environment variables.
func Load() (*Config, error) {
	// Set default values
	viper.SetDefault("SERVER.PORT", "8080")
	viper.SetDefault("SERVER.REQUESTS_PER_SECOND", 10)
	viper.SetDefault("SERVER.BURST_LIMIT", 20)
	viper.SetDefault("SERVER.ALLOWED_ORIGINS", []string{"*"})
	viper.SetDefault("DATABASE.URI", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE.NAME", "arena-scout")
	viper.SetDefault("DATABASE.COLLECTION", "projects")
	viper.SetDefault("SNAPSHOTS.PATH", "arena-scout.db")
	viper.SetDefault("ARENA.BASE_URL", "https://arena.colosseum.org/api")
	viper.SetDefault("ARENA.PUBLIC_URL", "https://arena.colosseum.org")
	viper.SetDefault("ARENA.HACKATHON_ID", 4)
	viper.SetDefault("ARENA.PAGE_LIMIT", 1000)
	viper.SetDefault("ARENA.REQUESTS_PER_SECOND", 2)
	viper.SetDefault("ARENA.BURST_LIMIT", 4)
	viper.SetDefault("ARENA.MAX_RETRIES", 3)
	viper.SetDefault("ARENA.BACKOFF_BASE_MILLIS", 1000)
	viper.SetDefault("REFRESHER.INTERVAL_MINUTES", 5)

	// Load from config file
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err // Only return error if it's not a "file not found" error
		}
	}

	// Load from environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
