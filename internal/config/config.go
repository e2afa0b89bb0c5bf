package config

import (
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	GinMode string

	// Gateways. API keys arrive per request from the user; these are
	// optional server-side fallbacks used when a request omits them.
	GenerationBaseURL string `yaml:"generation_base_url"`
	GenerationModel   string `yaml:"generation_model"`
	GenerationAPIKey  string
	SearchBaseURL     string `yaml:"search_base_url"`
	SearchAPIKey      string

	// Research pipeline
	SearchResultCount     int // result-count hint per query
	GatewayTimeoutSeconds int // per gateway call; expiry counts as that call's failure

	// Server
	ServerShutdownTimeoutSeconds int

	// CORS
	CORSAllowedOrigins string

	// Logging
	LogLevel  string
	LogFormat string
}

var AppConfig *Config

func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),

		// Gemini
		GenerationBaseURL: getEnvOrDefault("GENERATION_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		GenerationModel:   getEnvOrDefault("GENERATION_MODEL", "gemini-1.5-pro"),
		GenerationAPIKey:  getEnvOrDefault("GEMINI_API_KEY", ""),

		// Serper
		SearchBaseURL: getEnvOrDefault("SEARCH_BASE_URL", "https://google.serper.dev"),
		SearchAPIKey:  getEnvOrDefault("SERPER_API_KEY", ""),

		// Research pipeline
		SearchResultCount:     getEnvAsInt("SEARCH_RESULT_COUNT", 10),
		GatewayTimeoutSeconds: getEnvAsInt("GATEWAY_TIMEOUT_SECONDS", 60),

		// Server
		ServerShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 30),

		// CORS
		CORSAllowedOrigins: getEnvOrDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		// Logging
		LogLevel:  getEnvOrDefault("LOG_LEVEL", "debug"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "text"),
	}

	// Optional config file overlay for settings that should not come from
	// environment variables (gateway endpoints, model selection).
	configFilePath := getEnvOrDefault("CONFIG_FILE", "config.yaml")
	configFile, err := os.Open(configFilePath)
	if err != nil {
		log.Printf("No config file at %s, using environment defaults", configFilePath)
		return
	}
	defer configFile.Close()

	log.Printf("Loading config file: %v", configFilePath)
	if err := LoadConfigFile(configFile, AppConfig); err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}
}

// GatewayTimeout returns the per-call timeout for gateway requests.
func (c *Config) GatewayTimeout() time.Duration {
	return time.Duration(c.GatewayTimeoutSeconds) * time.Second
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		} else {
			log.Printf("Warning: Failed to parse environment variable %s='%s' as int, using default %d: %v", key, value, defaultValue, err)
		}
	}
	return defaultValue
}

func LoadConfigFile(reader io.Reader, config *Config) error {
	decoder := yaml.NewDecoder(reader)

	if err := decoder.Decode(config); err != nil {
		return err
	}

	return nil
}
