// Package config handles loading of runtime configuration
// from environment variables.
package config

import (
	"errors"
	"os"
)

// Config holds all configuration for the application,
// typically loaded from environment variables.
type Config struct {
	FECAPIKey       string
	BQProject       string
	CredentialsPath string
	Dataset         string
	StagingTable    string
	FinalTable      string
	ListenAddr      string
	CronSpec        string
	LogLevel        string
	Environment     string
}

// Load reads application settings from environment variables
// (which should be populated by the .env file in main.go).
func Load() (*Config, error) {
	apiKey := os.Getenv("FEC_API_KEY")
	if apiKey == "" {
		return nil, errors.New("FEC_API_KEY environment variable not set")
	}

	return &Config{
		FECAPIKey:       apiKey,
		BQProject:       os.Getenv("BQ_PROJECT"),
		CredentialsPath: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		Dataset:         getOrDefault("BQ_DATASET", "reporting"),
		StagingTable:    getOrDefault("STAGING_TABLE", "combined_report_staging"),
		FinalTable:      getOrDefault("FINAL_TABLE", "combined_report_all_years_new"),
		ListenAddr:      getOrDefault("LISTEN_ADDR", ":8080"),
		CronSpec:        os.Getenv("CRON_SPEC"),
		LogLevel:        getOrDefault("LOG_LEVEL", "info"),
		Environment:     getOrDefault("ENVIRONMENT", "development"),
	}, nil
}

func getOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
