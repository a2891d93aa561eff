package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Search    SearchConfig
	UI        UIConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// SearchConfig holds the remote search endpoint configuration
type SearchConfig struct {
	BaseURL          string        `mapstructure:"base_url"`
	SearchPath       string        `mapstructure:"search_path"`
	ClearHistoryPath string        `mapstructure:"clear_history_path"`
	Timeout          time.Duration `mapstructure:"timeout"` // 0 waits indefinitely
}

// UIConfig holds front-end configuration
type UIConfig struct {
	Variant          string `mapstructure:"variant"` // "cards" or "table"
	PlaceholderImage string `mapstructure:"placeholder_image"`
}

// SessionConfig holds visitor session configuration
type SessionConfig struct {
	TTL        time.Duration `mapstructure:"ttl"`
	CookieName string        `mapstructure:"cookie_name"`
}

// RateLimitConfig holds outbound rate limiting configuration
type RateLimitConfig struct {
	Search int `mapstructure:"search"` // requests per minute, 0 disables
	Burst  int `mapstructure:"burst"`
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pricelens/")

	// Environment variable settings
	v.SetEnvPrefix("PRICELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})

	// Search endpoint defaults
	v.SetDefault("search.base_url", "http://127.0.0.1:8000")
	v.SetDefault("search.search_path", "/search")
	v.SetDefault("search.clear_history_path", "/api/clear-history")
	v.SetDefault("search.timeout", "60s")

	// UI defaults
	v.SetDefault("ui.variant", "cards")
	v.SetDefault("ui.placeholder_image", "https://via.placeholder.com/200?text=No+Image")

	// Session defaults
	v.SetDefault("session.ttl", "30m")
	v.SetDefault("session.cookie_name", "pricelens_session")

	// Rate limit defaults
	v.SetDefault("ratelimit.search", 30)
	v.SetDefault("ratelimit.burst", 5)
}

// validate validates the configuration
func validate(config *Config) error {
	u, err := url.Parse(config.Search.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("search base URL must be an absolute http(s) URL, got: %q", config.Search.BaseURL)
	}

	if !strings.HasPrefix(config.Search.SearchPath, "/") {
		return fmt.Errorf("search path must start with '/', got: %q", config.Search.SearchPath)
	}

	if config.Search.Timeout < 0 {
		return fmt.Errorf("search timeout must not be negative, got: %s", config.Search.Timeout)
	}

	if config.UI.Variant != "cards" && config.UI.Variant != "table" {
		return fmt.Errorf("UI variant must be 'cards' or 'table', got: %s", config.UI.Variant)
	}

	if config.Session.TTL <= 0 {
		return fmt.Errorf("session TTL must be positive, got: %s", config.Session.TTL)
	}

	if config.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}

	if config.RateLimit.Search < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	return nil
}
