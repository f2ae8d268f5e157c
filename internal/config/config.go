// Package config loads application configuration from environment variables
// and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Logging    LoggingConfig
	Auth       AuthConfig
	Uploads    UploadConfig
	Cloudinary CloudinaryConfig
	Redis      RedisConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string
}

// DatabaseConfig holds SQLite configuration.
type DatabaseConfig struct {
	Path string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Path   string
	Level  string
	Format string
}

// AuthConfig holds token and login throttling configuration.
type AuthConfig struct {
	// JWTSecret signs tokens. When empty a secret is generated once and
	// persisted in the database.
	JWTSecret  string
	RatePerSec float64
	RateBurst  int
}

// UploadConfig holds local blob storage configuration.
type UploadConfig struct {
	Dir      string
	MaxBytes int64
}

// CloudinaryConfig holds Cloudinary credentials. Uploads go to Cloudinary
// only when all three credentials are set.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// Enabled reports whether Cloudinary credentials are configured.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// RedisConfig holds Redis configuration. Redis is optional.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis server is configured.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// LoadConfig loads configuration from a .env file and environment variables.
func LoadConfig() (*Config, error) {
	// .env is optional; variables can be set directly.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env file: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr: getEnv("REWEAR_ADDR", ":8080"),
		},
		Database: DatabaseConfig{
			Path: getEnv("REWEAR_DB", "rewear.sqlite3"),
		},
		Logging: LoggingConfig{
			Path:   getEnv("REWEAR_LOG", ""),
			Level:  strings.ToLower(getEnv("LOG_LEVEL", "info")),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "text")),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			RatePerSec: getEnvAsFloat("AUTH_RATE_PER_SEC", 1),
			RateBurst:  getEnvAsInt("AUTH_RATE_BURST", 10),
		},
		Uploads: UploadConfig{
			Dir:      getEnv("UPLOAD_DIR", "uploads"),
			MaxBytes: int64(getEnvAsInt("UPLOAD_MAX_BYTES", 10<<20)),
		},
		Cloudinary: CloudinaryConfig{
			CloudName: getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:    getEnv("CLOUDINARY_API_KEY", ""),
			APISecret: getEnv("CLOUDINARY_API_SECRET", ""),
			Folder:    getEnv("CLOUDINARY_FOLDER", "rewear"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LOG_FORMAT %q (want text or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LOG_LEVEL %q", c.Logging.Level)
	}
	if c.Uploads.MaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}
	if c.Auth.RatePerSec <= 0 || c.Auth.RateBurst <= 0 {
		return fmt.Errorf("AUTH_RATE_PER_SEC and AUTH_RATE_BURST must be positive")
	}
	return nil
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
