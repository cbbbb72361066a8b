// Package config loads and validates application configuration.
//
// Configuration is resolved in priority order: environment variables,
// an optional config.yaml in ~/.concierge, then built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Sentinel errors for configuration validation.
var (
	// ErrMissingAPIKey indicates the provider API key is not set.
	ErrMissingAPIKey = errors.New("GEMINI_API_KEY environment variable is required")

	// ErrInvalidProvider indicates an unsupported AI provider name.
	ErrInvalidProvider = errors.New("provider must be one of: gemini, ollama")

	// ErrInvalidTopK indicates an out-of-range retrieval depth.
	ErrInvalidTopK = errors.New("retrieval top_k must be between 1 and 50")

	// ErrInvalidHistoryWindow indicates an out-of-range history window.
	ErrInvalidHistoryWindow = errors.New("history_window must be between 1 and 20")
)

// Config holds all application configuration.
type Config struct {
	// Server
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy"`
	RateBurst   int      `mapstructure:"rate_burst"`

	// AI provider
	Provider      string `mapstructure:"provider"`
	ModelName     string `mapstructure:"model_name"`
	EmbedderModel string `mapstructure:"embedder_model"`
	OllamaHost    string `mapstructure:"ollama_host"`

	// Conversation pipeline
	RetrievalTopK int `mapstructure:"retrieval_top_k"`
	HistoryWindow int `mapstructure:"history_window"`

	// Weather (optional, mock fallback when empty)
	WeatherAPIKey string `mapstructure:"weather_api_key"`

	// Logging
	LogLevel string `mapstructure:"log_level"`
	LogJSON  bool   `mapstructure:"log_json"`
}

// Load reads configuration from defaults, an optional config file, and
// environment variables. It does not validate; call Validate before use.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".concierge"))
	}
	v.AddConfigPath(".")

	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Missing config file is fine: defaults + env cover everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("trust_proxy", false)
	v.SetDefault("rate_burst", 60)

	v.SetDefault("provider", "gemini")
	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("embedder_model", "gemini-embedding-001")
	v.SetDefault("ollama_host", "http://localhost:11434")

	v.SetDefault("retrieval_top_k", 3)
	v.SetDefault("history_window", 4)

	v.SetDefault("weather_api_key", "")

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

func bindEnvVariables(v *viper.Viper) {
	v.SetEnvPrefix("CONCIERGE")
	v.AutomaticEnv()

	// Widely-known variable names bound without the prefix.
	_ = v.BindEnv("weather_api_key", "OPENWEATHER_API_KEY", "CONCIERGE_WEATHER_API_KEY")
}

// Validate checks the configuration for serving. Fail fast at startup
// rather than at first request.
func (c *Config) Validate() error {
	switch c.Provider {
	case "gemini":
		if os.Getenv("GEMINI_API_KEY") == "" {
			return ErrMissingAPIKey
		}
	case "ollama":
		// Local provider, no key needed.
	default:
		return fmt.Errorf("%w: got %q", ErrInvalidProvider, c.Provider)
	}

	if c.RetrievalTopK < 1 || c.RetrievalTopK > 50 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopK, c.RetrievalTopK)
	}
	if c.HistoryWindow < 1 || c.HistoryWindow > 20 {
		return fmt.Errorf("%w: got %d", ErrInvalidHistoryWindow, c.HistoryWindow)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
