package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	NodeEnv   string
	Port      string
	JWTSecret string
	Database  DatabaseConfig
	ERP       ERPConfig
	AI        AIConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Silent   bool
}

// ERPConfig holds the upstream ERP (XML-RPC) import settings.
// The importer is disabled when URL is empty.
type ERPConfig struct {
	URL            string
	Database       string
	Username       string
	Password       string
	OrganizationID string // organization imported records land in
	SyncInterval   int    // in minutes
}

// AIConfig holds optional Gemini settings for alternate suggestions
type AIConfig struct {
	GeminiAPIKey string
	Model        string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	syncInterval, _ := strconv.Atoi(getEnv("ERP_SYNC_INTERVAL", "15"))

	return &Config{
		NodeEnv:   getEnv("NODE_ENV", "development"),
		Port:      getEnv("PORT", "3001"),
		JWTSecret: jwtSecret,
		Database: DatabaseConfig{
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			Username: getEnv("PG_USERNAME", "postgres"),
			Password: os.Getenv("PG_PASSWORD"),
			Database: getEnv("PG_DATABASE", "partcompat"),
			Silent:   getEnv("DB_SILENT", "false") == "true",
		},
		ERP: ERPConfig{
			URL:            os.Getenv("ERP_URL"),
			Database:       getEnv("ERP_DATABASE", "erp"),
			Username:       os.Getenv("ERP_USERNAME"),
			Password:       os.Getenv("ERP_PASSWORD"),
			OrganizationID: os.Getenv("ERP_ORG_ID"),
			SyncInterval:   syncInterval,
		},
		AI: AIConfig{
			GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
			Model:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		},
	}, nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
