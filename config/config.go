package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Classifier  ClassifierConfig
	Recognition RecognitionConfig
	Cache       CacheConfig
	History     HistoryConfig
	RateLimit   RateLimitConfig
	Logging     LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// ClassifierConfig holds image classification server configuration
type ClassifierConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	FailureThreshold  uint32        `mapstructure:"failure_threshold"`
	OpenTimeout       time.Duration `mapstructure:"open_timeout"`
	StartupProbes     int           `mapstructure:"startup_probes"`
}

// RecognitionConfig holds matching and retry configuration
type RecognitionConfig struct {
	MaxAttempts         int           `mapstructure:"max_attempts"`
	EarlyExitConfidence float64       `mapstructure:"early_exit_confidence"`
	RetryDelay          time.Duration `mapstructure:"retry_delay"`
	AttemptTimeout      time.Duration `mapstructure:"attempt_timeout"`
	TopK                int           `mapstructure:"top_k"`
	MinConfidence       float64       `mapstructure:"min_confidence"`
	KeywordStrategy     string        `mapstructure:"keyword_strategy"` // "substring", "exact" or "fuzzy"
	FuzzyEditDistance   int           `mapstructure:"fuzzy_edit_distance"`
	EnableFallback      bool          `mapstructure:"enable_fallback"`
	EnableDebugLogging  bool          `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type       string        `mapstructure:"type"` // "memory" or "none"
	TTL        time.Duration `mapstructure:"ttl"`
	MaxEntries int           `mapstructure:"max_entries"`
}

// HistoryConfig holds recognition history configuration
type HistoryConfig struct {
	Capacity int `mapstructure:"capacity"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/yatralens/")

	// YATRALENS_RECOGNITION_MAX_ATTEMPTS -> recognition.max_attempts
	v.SetEnvPrefix("YATRALENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so that AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173", "http://localhost:3000"})
	v.SetDefault("server.max_upload_bytes", 8<<20)
	v.SetDefault("server.shutdown_timeout", "15s")

	// Classifier defaults
	v.SetDefault("classifier.base_url", "")
	v.SetDefault("classifier.api_key", "")
	v.SetDefault("classifier.timeout", "10s")
	v.SetDefault("classifier.requests_per_second", 5.0)
	v.SetDefault("classifier.burst", 10)
	v.SetDefault("classifier.failure_threshold", 5)
	v.SetDefault("classifier.open_timeout", "30s")
	v.SetDefault("classifier.startup_probes", 3)

	// Recognition defaults
	v.SetDefault("recognition.max_attempts", 3)
	v.SetDefault("recognition.early_exit_confidence", 0.8)
	v.SetDefault("recognition.retry_delay", "100ms")
	v.SetDefault("recognition.attempt_timeout", "10s")
	v.SetDefault("recognition.top_k", 5)
	v.SetDefault("recognition.min_confidence", 0.1)
	v.SetDefault("recognition.keyword_strategy", "substring")
	v.SetDefault("recognition.fuzzy_edit_distance", 1)
	v.SetDefault("recognition.enable_fallback", true)
	v.SetDefault("recognition.enable_debug_logging", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.max_entries", 1000)

	// History defaults
	v.SetDefault("history.capacity", 50)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.burst", 10)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Environment == "production" && config.Classifier.BaseURL == "" {
		return fmt.Errorf("classifier base URL is required in production (set YATRALENS_CLASSIFIER_BASE_URL)")
	}

	if config.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("server max upload bytes must be positive, got: %d", config.Server.MaxUploadBytes)
	}

	r := config.Recognition
	if r.MaxAttempts < 1 {
		return fmt.Errorf("recognition max attempts must be at least 1, got: %d", r.MaxAttempts)
	}
	if r.EarlyExitConfidence <= 0 || r.EarlyExitConfidence > 1 {
		return fmt.Errorf("recognition early exit confidence must be in (0, 1], got: %v", r.EarlyExitConfidence)
	}
	if r.MinConfidence <= 0 || r.MinConfidence >= 1 {
		return fmt.Errorf("recognition min confidence must be in (0, 1), got: %v", r.MinConfidence)
	}
	if r.TopK < 1 {
		return fmt.Errorf("recognition top k must be at least 1, got: %d", r.TopK)
	}
	switch r.KeywordStrategy {
	case "substring", "exact", "fuzzy":
	default:
		return fmt.Errorf("recognition keyword strategy must be 'substring', 'exact' or 'fuzzy', got: %s", r.KeywordStrategy)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("rate limit per IP must not be negative, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
