// Package config loads the server configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/AleRigon22/InvestmentDashboard/backend/internal/portfolio"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	RateLimit RateLimitConfig
	Portfolio PortfolioConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port             string
	AllowedOrigins   []string
	FrontendDistPath string
	APIToken         string // empty disables token auth
	ShutdownTimeout  time.Duration
}

// DatabaseConfig holds sqlite configuration
type DatabaseConfig struct {
	Path     string
	LogLevel string // silent, error, warn, info
}

// RateLimitConfig bounds write requests per client IP
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	MaxClients        int
}

// PortfolioConfig holds calculation options
type PortfolioConfig struct {
	CyclePLMethod portfolio.CyclePLMethod
}

// LoadConfig loads configuration from .env file and environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		// .env file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	method, err := portfolio.ParseCyclePLMethod(getEnv("CYCLE_PL_METHOD", "scale"))
	if err != nil {
		return nil, fmt.Errorf("invalid CYCLE_PL_METHOD: %w", err)
	}

	config := &Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "8080"),
			AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:3000"}),
			FrontendDistPath: getEnv("FRONTEND_DIST_PATH", ""),
			APIToken:         getEnv("API_TOKEN", ""),
			ShutdownTimeout:  getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Path:     getEnv("DB_PATH", "./investment_dashboard.db"),
			LogLevel: getEnv("DB_LOG_LEVEL", "warn"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 5),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 20),
			MaxClients:        getEnvAsInt("RATE_LIMIT_CLIENTS", 1024),
		},
		Portfolio: PortfolioConfig{
			CyclePLMethod: method,
		},
	}

	return config, nil
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer with a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsFloat gets an environment variable as a float with a default value
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as a duration with a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated variable, dropping empty entries
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	var values []string
	for _, v := range strings.Split(valueStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return defaultValue
	}
	return values
}
