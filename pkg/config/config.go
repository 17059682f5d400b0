package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Environment variables
// are read here and nowhere else; components receive explicit values.
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Database
	Database DatabaseConfig

	// Redis
	Redis RedisConfig

	// Forecast model settings
	Forecast ForecastConfig

	// Scenario defaults applied when a request omits a value
	Scenario ScenarioDefaults

	// Scheduler
	RebuildSchedule string // cron expression; empty disables periodic rebuild

	// Logging
	LogLevel  string
	LogFormat string
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	URL string

	// Connection pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration for the scenario result cache.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
	TTL      time.Duration
}

// ForecastConfig holds the forecaster's window and horizon, in months.
type ForecastConfig struct {
	RollingMonths  int // training window, bounds [12,120]
	ForecastMonths int // horizon, bounds [6,120]
}

// ScenarioDefaults holds the fallback scenario assumptions.
type ScenarioDefaults struct {
	RecyclePct      float64
	PackOverheadPct float64
	USDToLocalFX    float64
}

// Load reads configuration from the environment, applying defaults once at
// this boundary. Only this function calls os.Getenv.
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		Port: getEnv("PORT", "8090"),
		Env:  getEnv("ENV", "development"),

		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 2),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			TTL:      getEnvAsDuration("REDIS_SCENARIO_TTL", "10m"),
		},

		Forecast: ForecastConfig{
			RollingMonths:  getEnvAsInt("ROLLING_MONTHS", 60),
			ForecastMonths: getEnvAsInt("FORECAST_MONTHS", 36),
		},

		Scenario: ScenarioDefaults{
			RecyclePct:      getEnvAsFloat("DEFAULT_RECYCLE_PCT", 0),
			PackOverheadPct: getEnvAsFloat("DEFAULT_PACK_OVERHEAD_PCT", 25),
			USDToLocalFX:    getEnvAsFloat("DEFAULT_USD_FX", 83.0),
		},

		RebuildSchedule: getEnv("REBUILD_SCHEDULE", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks required values and model bounds.
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}
	if c.Forecast.RollingMonths < 12 || c.Forecast.RollingMonths > 120 {
		return fmt.Errorf("ROLLING_MONTHS must be in [12,120], got %d", c.Forecast.RollingMonths)
	}
	if c.Forecast.ForecastMonths < 6 || c.Forecast.ForecastMonths > 120 {
		return fmt.Errorf("FORECAST_MONTHS must be in [6,120], got %d", c.Forecast.ForecastMonths)
	}
	if c.Scenario.RecyclePct < 0 || c.Scenario.RecyclePct > 100 {
		return fmt.Errorf("DEFAULT_RECYCLE_PCT must be in [0,100], got %g", c.Scenario.RecyclePct)
	}
	if c.Scenario.PackOverheadPct < 0 {
		return fmt.Errorf("DEFAULT_PACK_OVERHEAD_PCT must be non-negative, got %g", c.Scenario.PackOverheadPct)
	}
	if c.Scenario.USDToLocalFX <= 0 {
		return fmt.Errorf("DEFAULT_USD_FX must be positive, got %g", c.Scenario.USDToLocalFX)
	}
	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations.
func loadEnvFile() {
	paths := []string{".env"}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
