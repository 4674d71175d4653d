// internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the application configuration, loaded once at startup.
type Config struct {
	Port      string
	DataDir   string
	LogDir    string
	DebugMode bool

	// Conversation provider selection and its settings. An empty provider
	// name (or missing credentials) leaves the app running on the canned
	// fallback tables only.
	Provider       string
	ProviderConfig map[string]string
}

// Load reads configuration from the environment, honoring an optional
// .env file.
func Load() (*Config, error) {
	godotenv.Load()

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		DataDir:   getEnvPath("DATA_DIR", "data"),
		LogDir:    getEnvPath("LOG_DIR", "logs"),
		DebugMode: getEnvBool("DEBUG_MODE", true),
		Provider:  getEnv("CONVERSATION_PROVIDER", "elevenlabs"),
		ProviderConfig: map[string]string{
			"proxy_url":     getEnv("PROXY_SERVER_URL", ""),
			"access_token":  getEnv("PROXY_SERVER_ACCESS_TOKEN", ""),
			"api_key":       getEnv("ELEVENLABS_API_KEY", ""),
			"agent_id":      getEnv("ELEVENLABS_AGENT_ID", ""),
			"default_model": getEnv("OPENROUTER_MODEL", ""),
		},
	}

	if cfg.Provider == "openrouter" {
		cfg.ProviderConfig["api_key"] = getEnv("OPENROUTER_API_KEY", "")
	}

	if cfg.ProviderConfig["api_key"] == "" {
		// Warn only; conversation practice still works on fallbacks.
		log.Println("warning: no conversation provider API key configured, replies will use fallback tables")
	}

	current = cfg
	return cfg, nil
}

var current *Config

// GetCurrentConfig returns the configuration loaded at startup, loading
// it on first use when needed.
func GetCurrentConfig() *Config {
	if current == nil {
		cfg, _ := Load()
		return cfg
	}
	return current
}

// getEnv reads an environment variable with a default.
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvPath reads a path-valued variable and ensures the directory exists.
func getEnvPath(key, defaultValue string) string {
	path := getEnv(key, defaultValue)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.MkdirAll(path, 0755); err != nil {
			fmt.Printf("warning: failed to create directory %s: %v\n", path, err)
		}
	}
	return path
}

// getEnvBool reads a boolean environment variable.
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
