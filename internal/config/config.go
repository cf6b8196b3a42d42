package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the server configuration, sourced from the environment.
type Config struct {
	Port         int
	Backend      string // "ollama" or "openrouter"
	Model        string
	OllamaURL    string
	APIKey       string
	BaseURL      string
	MaxDimension int
	UploadsDir   string
	OutputsDir   string
	DatabasePath string
}

// Load reads configuration from the environment, after loading a .env file
// when one is present. Missing values fall back to defaults.
func Load() *Config {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load(".env")

	return &Config{
		Port:         getEnvAsInt("PORT", 8080),
		Backend:      getEnv("VISION_BACKEND", "ollama"),
		Model:        getEnv("VISION_MODEL", "llama3.2-vision"),
		OllamaURL:    getEnv("OLLAMA_URL", "http://localhost:11434"),
		APIKey:       getEnv("OPENROUTER_API_KEY", ""),
		BaseURL:      getEnv("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1"),
		MaxDimension: getEnvAsInt("MAX_IMAGE_DIMENSION", 1568),
		UploadsDir:   getEnv("UPLOADS_DIR", filepath.Join(".", "uploads")),
		OutputsDir:   getEnv("OUTPUTS_DIR", filepath.Join(".", "outputs")),
		DatabasePath: getEnv("DATABASE_PATH", filepath.Join(".", "comparisons.db")),
	}
}

// Validate checks settings that have no sensible fallback.
func (c *Config) Validate() error {
	switch c.Backend {
	case "ollama":
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL must be set for the ollama backend")
		}
	case "openrouter":
		if c.APIKey == "" {
			return fmt.Errorf("OPENROUTER_API_KEY must be set for the openrouter backend")
		}
	default:
		return fmt.Errorf("unknown VISION_BACKEND %q (use 'ollama' or 'openrouter')", c.Backend)
	}
	if c.MaxDimension < 0 {
		return fmt.Errorf("MAX_IMAGE_DIMENSION must not be negative")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
