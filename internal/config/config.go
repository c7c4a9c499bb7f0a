package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultRemoteURL is the public inference endpoint used when none is configured
const DefaultRemoteURL = "https://api-inference.huggingface.co/models/distilbert-base-uncased-finetuned-sst-2-english"

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	return NewWithFile("")
}

// NewWithFile creates a configuration instance reading the given file. An
// empty path searches the default locations, where a missing file is fine.
func NewWithFile(path string) (*Config, error) {
	// Best-effort: a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/llm-sentiment/")
		v.AddConfigPath("$HOME/.llm-sentiment")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.SetEnvPrefix("SENTIMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindCompatEnv(v); err != nil {
		return nil, err
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// bindCompatEnv binds the unprefixed variable names the service has always
// honoured. The prefixed SENTIMENT_* names take precedence.
func bindCompatEnv(v *viper.Viper) error {
	bindings := map[string][]string{
		"remote.api_token": {"SENTIMENT_REMOTE_API_TOKEN", "HF_API_TOKEN"},
		"remote.api_url":   {"SENTIMENT_REMOTE_API_URL", "HF_API_URL"},
		"server.port":      {"SENTIMENT_SERVER_PORT", "PORT"},
	}
	for key, envs := range bindings {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Classification defaults
	v.SetDefault("classify.backend", "local")
	v.SetDefault("classify.neutral_margin", 0.15)

	// Local model defaults
	v.SetDefault("local.model_path", "")
	v.SetDefault("local.max_text_size", 4096)

	// Remote backend defaults
	v.SetDefault("remote.provider", "huggingface")
	v.SetDefault("remote.api_token", "")
	v.SetDefault("remote.api_url", DefaultRemoteURL)
	v.SetDefault("remote.timeout", "60s")
	v.SetDefault("remote.error_body_limit", 200)
	v.SetDefault("remote.max_text_size", 4096)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.model_name", "gpt-4o-mini")
	v.SetDefault("openai.max_tokens", 512)
	v.SetDefault("openai.temperature", 0.0)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model_name", "gemini-1.5-flash")
	v.SetDefault("gemini.max_tokens", 512)
	v.SetDefault("gemini.temperature", 0.0)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.max_tokens", 512)
	v.SetDefault("bedrock.temperature", 0.0)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 7860)
	v.SetDefault("server.mode", "release")

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.listen_address", ":8000")
	v.SetDefault("metrics.sample_interval", "5s")

	// Journal defaults
	v.SetDefault("journal.enabled", true)
	v.SetDefault("journal.type", "memory")
	v.SetDefault("journal.retention", "24h")
	v.SetDefault("journal.cleanup_frequency", "1h")
	v.SetDefault("journal.sqlite_path", "/data/sentiment_journal.db")
	v.SetDefault("journal.mysql_dsn", "user:password@tcp(localhost:3306)/sentiment?parseTime=true")
	v.SetDefault("journal.redis_address", "localhost:6379")
	v.SetDefault("journal.redis_password", "")
	v.SetDefault("journal.redis_db", 0)

	// CLI defaults
	v.SetDefault("cli.verbose", false)
	v.SetDefault("cli.json_output", false)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	d, err := time.ParseDuration(c.GetString(key))
	if err != nil {
		return 0, fmt.Errorf("invalid duration for %s: %w", key, err)
	}
	return d, nil
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
