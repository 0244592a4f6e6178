package config

import "os"

type Config struct {
	DatabasePath string
	Port         string
	LogLevel     string

	// MergeUnitsFold makes unit comparison inside merge keys
	// case-insensitive, so "G" and "g" contributions merge. Off by
	// default: historically units compare literally.
	MergeUnitsFold bool
}

func Load() (Config, error) {
	config := Config{
		DatabasePath:   envOrDefault("DATABASE_PATH", "./data/pantry-hub.db"),
		Port:           envOrDefault("PORT", "8080"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		MergeUnitsFold: os.Getenv("MERGE_UNITS_FOLD") == "true",
	}
	return config, nil
}

func envOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
