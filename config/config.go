// Package config loads layered configuration (env vars over .env over
// defaults) for the mapping pipeline, following the teacher's Viper idiom.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig
	USDA      USDAConfig
	LLM       LLMConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
	Paths     PathsConfig
}

// MatchingConfig holds the semantic/nutritional gate thresholds.
type MatchingConfig struct {
	MinSemanticThreshold    float64 `mapstructure:"min_semantic_threshold"`
	MinNutritionalThreshold float64 `mapstructure:"min_nutritional_threshold"`
	EnableDebugLogging      bool    `mapstructure:"enable_debug_logging"`
}

// ServerConfig holds C15's optional HTTP surface configuration.
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// USDAConfig holds the catalog client (C2) configuration. APIKey is
// required; its absence is a fatal validate() error, mirroring the
// teacher's own required-credential handling.
type USDAConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	PageSize       int           `mapstructure:"page_size"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateDelay      time.Duration `mapstructure:"rate_delay"`
}

// LLMConfig holds the optional LLM client configuration backing C4/C7/C8.
// Absence of APIKey disables those stages' LLM calls and routes them
// through their deterministic fallbacks; this is a functional degrade, not
// a fatal error.
type LLMConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// CacheConfig holds the generic result cache used by C15's HTTP surface.
type CacheConfig struct {
	Type     string        `mapstructure:"type"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	USDA  int `mapstructure:"usda"`
}

// PathsConfig holds the on-disk locations of the curated mapping store, the
// persistent intent cache, and (optionally) an external nutrient
// definitions table.
type PathsConfig struct {
	CuratedMappings     string `mapstructure:"curated_mappings"`
	IntentCache         string `mapstructure:"intent_cache"`
	NutrientDefinitions string `mapstructure:"nutrient_definitions"`
}

// Load loads configuration from environment variables, an optional .env
// file, an optional config.yaml, and built-in defaults, in that order of
// precedence (env wins).
func Load() (*Config, error) {
	v := viper.New()

	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/usda-mapping-agent/")

	v.SetEnvPrefix("MAPPER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVars(v)
	setDefaults(v)

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

func loadEnvFile() error {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(envFile)
	if err != nil {
		return err
	}

	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	lines := strings.Split(content, "\n")

	for lineNum, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			fmt.Fprintf(os.Stderr, "warning: ignoring malformed line %d in .env: %q\n", lineNum+1, line)
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := unquoteValue(strings.TrimSpace(parts[1]))

		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}

	return nil
}

// unquoteValue removes surrounding quotes from a value.
// Supports both double quotes (") and single quotes (').
func unquoteValue(value string) string {
	if len(value) >= 2 {
		if strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			return value[1 : len(value)-1]
		}
		if strings.HasPrefix(value, "'") && strings.HasSuffix(value, "'") {
			return value[1 : len(value)-1]
		}
	}
	return value
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("server.port", "MAPPER_SERVER_PORT")
	v.BindEnv("server.environment", "MAPPER_SERVER_ENVIRONMENT")
	v.BindEnv("server.allowed_origins", "MAPPER_SERVER_ALLOWED_ORIGINS")

	v.BindEnv("usda.api_key", "MAPPER_USDA_API_KEY")
	v.BindEnv("usda.base_url", "MAPPER_USDA_BASE_URL")
	v.BindEnv("usda.page_size", "MAPPER_USDA_PAGE_SIZE")
	v.BindEnv("usda.max_retries", "MAPPER_USDA_MAX_RETRIES")
	v.BindEnv("usda.request_timeout", "MAPPER_USDA_REQUEST_TIMEOUT")
	v.BindEnv("usda.rate_delay", "MAPPER_USDA_RATE_DELAY")

	v.BindEnv("llm.api_key", "MAPPER_LLM_API_KEY")
	v.BindEnv("llm.base_url", "MAPPER_LLM_BASE_URL")
	v.BindEnv("llm.model", "MAPPER_LLM_MODEL")

	v.BindEnv("cache.type", "MAPPER_CACHE_TYPE")
	v.BindEnv("cache.redis_url", "MAPPER_CACHE_REDIS_URL")
	v.BindEnv("cache.ttl", "MAPPER_CACHE_TTL")

	v.BindEnv("ratelimit.per_ip", "MAPPER_RATELIMIT_PER_IP")
	v.BindEnv("ratelimit.usda", "MAPPER_RATELIMIT_USDA")

	v.BindEnv("matching.min_semantic_threshold", "MAPPER_MATCHING_MIN_SEMANTIC")
	v.BindEnv("matching.min_nutritional_threshold", "MAPPER_MATCHING_MIN_NUTRITIONAL")
	v.BindEnv("matching.enable_debug_logging", "MAPPER_MATCHING_DEBUG")

	v.BindEnv("paths.curated_mappings", "MAPPER_PATHS_CURATED_MAPPINGS")
	v.BindEnv("paths.intent_cache", "MAPPER_PATHS_INTENT_CACHE")
	v.BindEnv("paths.nutrient_definitions", "MAPPER_PATHS_NUTRIENT_DEFINITIONS")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("usda.base_url", "https://api.nal.usda.gov/fdc")
	v.SetDefault("usda.page_size", 30)
	v.SetDefault("usda.max_retries", 3)
	v.SetDefault("usda.request_timeout", "45s")
	v.SetDefault("usda.rate_delay", "500ms")

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", "720h")

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.usda", 1000)

	v.SetDefault("matching.min_semantic_threshold", 65.0)
	v.SetDefault("matching.min_nutritional_threshold", 80.0)
	v.SetDefault("matching.enable_debug_logging", false)

	v.SetDefault("paths.curated_mappings", "data/curated_mappings.json")
	v.SetDefault("paths.intent_cache", "data/intent_cache.json")
	v.SetDefault("paths.nutrient_definitions", "")
}

func validate(config *Config) error {
	if config.USDA.APIKey == "" {
		return fmt.Errorf("%w: USDA API key is required (set MAPPER_USDA_API_KEY)", domain.ErrConfigMissing)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("%w: cache type must be 'memory' or 'redis', got: %s", domain.ErrConfigMissing, config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("%w: redis URL is required when cache type is 'redis'", domain.ErrConfigMissing)
	}

	return nil
}
