package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment
type Config struct {
	// Generation
	OutputDir string
	Format    string
	IDStyle   string

	// Storage
	DatabaseURL string
	DataPath    string

	// Server
	Port    string
	GinMode string

	// Auth
	JWTSecret       string
	APIMasterSecret string
	AdminUsername   string
	AdminPassword   string
}

// LoadDotEnv loads the first .env found in the working directory or its parents
func LoadDotEnv() {
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}
}

// Load reads the configuration from the environment
func Load() *Config {
	return &Config{
		OutputDir: getEnv("FIXTURE_OUTPUT_DIR", "."),
		Format:    getEnv("FIXTURE_FORMAT", "legacy"),
		IDStyle:   getEnv("FIXTURE_ID_STYLE", "sequential"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DataPath:    getEnv("DATA_PATH", "fixtures.db"),

		Port:    getEnv("PORT", "8000"),
		GinMode: getEnv("GIN_MODE", ""),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		APIMasterSecret: getEnv("API_MASTER_SECRET", ""),
		AdminUsername:   getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword:   getEnv("ADMIN_PASSWORD", "admin123"),
	}
}

// ErrMissingSecret is returned when the server would start with an empty
// signing secret, which would let anyone mint tokens and API keys
var ErrMissingSecret = errors.New("missing secret")

// RequireSecrets checks that both signing secrets are set
func (c *Config) RequireSecrets() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.APIMasterSecret == "" {
		missing = append(missing, "API_MASTER_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSecret, strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
