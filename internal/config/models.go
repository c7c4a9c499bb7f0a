package config

import (
	"fmt"
	"time"

	"github.com/mikey/llm-sentiment/internal/core"
)

// ClassifyConfig holds the per-request defaults
type ClassifyConfig struct {
	Backend       core.Backend
	NeutralMargin float64
}

// LocalConfig represents the configuration for the in-process model
type LocalConfig struct {
	ModelPath   string
	MaxTextSize int
}

// RemoteConfig represents the configuration for the remote backend
type RemoteConfig struct {
	Provider       string
	APIToken       string
	APIURL         string
	Timeout        time.Duration
	ErrorBodyLimit int
	MaxTextSize    int
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	ModelName   string
	MaxTokens   int
	Temperature float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
}

// ServerConfig represents the HTTP API configuration
type ServerConfig struct {
	Host string
	Port int
	Mode string
}

// Address returns host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// MetricsConfig represents the Prometheus exporter configuration
type MetricsConfig struct {
	Enabled        bool
	ListenAddress  string
	SampleInterval time.Duration
}

// JournalConfig represents the classification journal configuration
type JournalConfig struct {
	Enabled          bool
	Type             string
	Retention        time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	RedisAddress     string
	RedisPassword    string
	RedisDB          int
}

// GetClassify returns the classification defaults
func (c *Config) GetClassify() (ClassifyConfig, error) {
	backend, err := core.ParseBackend(c.GetString("classify.backend"))
	if err != nil {
		return ClassifyConfig{}, err
	}
	margin := c.GetFloat64("classify.neutral_margin")
	if err := core.ValidateMargin(margin); err != nil {
		return ClassifyConfig{}, err
	}
	return ClassifyConfig{Backend: backend, NeutralMargin: margin}, nil
}

// GetLocal returns the local model configuration
func (c *Config) GetLocal() LocalConfig {
	return LocalConfig{
		ModelPath:   c.GetString("local.model_path"),
		MaxTextSize: c.GetInt("local.max_text_size"),
	}
}

// GetRemote returns the remote backend configuration
func (c *Config) GetRemote() (RemoteConfig, error) {
	timeout, err := c.GetDuration("remote.timeout")
	if err != nil {
		return RemoteConfig{}, err
	}
	if timeout <= 0 {
		return RemoteConfig{}, fmt.Errorf("remote.timeout must be positive, got %s", timeout)
	}
	url := c.GetString("remote.api_url")
	if url == "" {
		url = DefaultRemoteURL
	}
	return RemoteConfig{
		Provider:       c.GetString("remote.provider"),
		APIToken:       c.GetString("remote.api_token"),
		APIURL:         url,
		Timeout:        timeout,
		ErrorBodyLimit: c.GetInt("remote.error_body_limit"),
		MaxTextSize:    c.GetInt("remote.max_text_size"),
	}, nil
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		BaseURL:     c.GetString("openai.base_url"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
	}
}

// GetServer returns the HTTP API configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		Host: c.GetString("server.host"),
		Port: c.GetInt("server.port"),
		Mode: c.GetString("server.mode"),
	}
}

// GetMetrics returns the metrics exporter configuration
func (c *Config) GetMetrics() (MetricsConfig, error) {
	interval, err := c.GetDuration("metrics.sample_interval")
	if err != nil {
		return MetricsConfig{}, err
	}
	if interval <= 0 {
		return MetricsConfig{}, fmt.Errorf("metrics.sample_interval must be positive, got %s", interval)
	}
	return MetricsConfig{
		Enabled:        c.GetBool("metrics.enabled"),
		ListenAddress:  c.GetString("metrics.listen_address"),
		SampleInterval: interval,
	}, nil
}

// GetJournal returns the journal configuration
func (c *Config) GetJournal() (JournalConfig, error) {
	retention, err := c.GetDuration("journal.retention")
	if err != nil {
		return JournalConfig{}, err
	}
	cleanup, err := c.GetDuration("journal.cleanup_frequency")
	if err != nil {
		return JournalConfig{}, err
	}
	return JournalConfig{
		Enabled:          c.GetBool("journal.enabled"),
		Type:             c.GetString("journal.type"),
		Retention:        retention,
		CleanupFrequency: cleanup,
		SQLitePath:       c.GetString("journal.sqlite_path"),
		MySQLDSN:         c.GetString("journal.mysql_dsn"),
		RedisAddress:     c.GetString("journal.redis_address"),
		RedisPassword:    c.GetString("journal.redis_password"),
		RedisDB:          c.GetInt("journal.redis_db"),
	}, nil
}
