// Package api serves the tax reform engine over HTTP.
package api

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StageLocal = "local"
	StageProd  = "prod"
)

// Config is the server configuration, read from the environment.
type Config struct {
	Port           string
	Stage          string
	LogLevel       string
	AllowedOrigins []string
	// TablesFile is an optional YAML file of reference tables.
	TablesFile string
}

// LoadConfig loads envFile into the environment, then reads the
// configuration. Variables already set in the environment win over the
// file. An empty envFile means ".env", which may be missing.
func LoadConfig(envFile string) (Config, error) {
	optional := envFile == ""
	if optional {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		if !optional || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("cannot load %s: %w", envFile, err)
		}
	}
	return ConfigFromEnv(), nil
}

// ConfigFromEnv reads the configuration from the environment only.
func ConfigFromEnv() Config {
	return Config{
		Port:           getEnvWithDefault("PORT", "8000"),
		Stage:          getEnvWithDefault("STAGE", StageLocal),
		LogLevel:       getEnvWithDefault("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*")),
		TablesFile:     os.Getenv("TABLES_FILE"),
	}
}

// Addr is the listen address of the server.
func (c Config) Addr() string { return ":" + c.Port }

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
