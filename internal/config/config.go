package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"autobi/internal/dashboard"
	"autobi/internal/errors"
)

// Heuristics gathers every tunable threshold, keyword list and table of the
// analysis engine
type Heuristics = dashboard.Settings

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	AI         AIConfig
	Data       DataConfig
	LogLevel   string
	Heuristics Heuristics
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the optional report-history database. An empty URL
// disables persistence.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a database was configured
func (d DatabaseConfig) Enabled() bool {
	return d.URL != ""
}

// AIConfig holds LLM enhancement settings. Without a key only the
// deterministic provider is used.
type AIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Timeout     time.Duration
	Temperature float64
}

// Enabled reports whether an LLM key was configured
func (a AIConfig) Enabled() bool {
	return a.APIKey != ""
}

// DataConfig holds input limits
type DataConfig struct {
	MaxRows        int
	HeuristicsFile string
}

// Load reads configuration from environment variables and overlays the
// heuristics file when HEURISTICS_FILE is set
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		AI:       loadAIConfig(),
		Data:     loadDataConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	heuristics, err := LoadHeuristics(config.Data.HeuristicsFile)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load heuristics")
	}
	config.Heuristics = heuristics

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadAIConfig() AIConfig {
	defaults := dashboard.DefaultSettings().Enhance
	return AIConfig{
		APIKey:      os.Getenv("LLM_API_KEY"),
		Model:       getEnvOrDefault("LLM_MODEL", defaults.Model),
		BaseURL:     os.Getenv("LLM_BASE_URL"),
		Timeout:     getEnvDurationOrDefault("LLM_TIMEOUT", defaults.Timeout),
		Temperature: getEnvFloatOrDefault("LLM_TEMPERATURE", 0.2),
	}
}

func loadDataConfig() DataConfig {
	return DataConfig{
		MaxRows:        getEnvIntOrDefault("MAX_ROWS", 100000),
		HeuristicsFile: os.Getenv("HEURISTICS_FILE"),
	}
}

// LoadHeuristics returns the default heuristics, overlaid with the YAML file
// at path. Keys missing from the file keep their defaults; an empty path
// returns the defaults unchanged.
func LoadHeuristics(path string) (Heuristics, error) {
	heuristics := dashboard.DefaultSettings()
	if path == "" {
		return heuristics, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Heuristics{}, errors.Wrapf(err, "read heuristics file %s", path)
	}
	if err := yaml.Unmarshal(raw, &heuristics); err != nil {
		return Heuristics{}, &errors.AppError{
			Code:    errors.CodeConfigInvalid,
			Message: "invalid heuristics file " + path,
			Cause:   err,
		}
	}
	return heuristics, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.Data.MaxRows <= 0 {
		return errors.ConfigInvalid("MAX_ROWS must be positive")
	}
	if config.AI.Enabled() && config.AI.Model == "" {
		return errors.ConfigInvalid("LLM_MODEL is required when LLM_API_KEY is set")
	}
	if config.AI.Timeout <= 0 {
		return errors.ConfigInvalid("LLM_TIMEOUT must be positive")
	}
	if config.Heuristics.Dashboard.HistogramBins <= 0 {
		return errors.ConfigInvalid("dashboard.histogram_bins must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
