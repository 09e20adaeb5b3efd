package config

import (
	"time"

	"florascan/internal/providers"
)

// Config holds florascan configuration.
// Loaded from ./config.yaml or ~/.florascan/config.yaml.
type Config struct {
	Server   ServerCfg   `mapstructure:"server" yaml:"server"`
	Gemini   GeminiCfg   `mapstructure:"gemini" yaml:"gemini"`
	Pexels   PexelsCfg   `mapstructure:"pexels" yaml:"pexels"`
	Upload   UploadCfg   `mapstructure:"upload" yaml:"upload"`
	Identify IdentifyCfg `mapstructure:"identify" yaml:"identify"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
}

// GeminiCfg configures the vision provider.
type GeminiCfg struct {
	APIKey          string        `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	BaseURL         string        `mapstructure:"base_url" yaml:"base_url"`
	Models          []string      `mapstructure:"models" yaml:"models"` // ordered fallback chain
	MaxRetries      int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryBaseDelay  time.Duration `mapstructure:"retry_base_delay" yaml:"retry_base_delay"`
	FailoverDelay   time.Duration `mapstructure:"failover_delay" yaml:"failover_delay"`
	Timeout         time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Temperature     float64       `mapstructure:"temperature" yaml:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`
}

// PexelsCfg configures photo search enrichment.
type PexelsCfg struct {
	APIKey string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
}

// UploadCfg configures image ingress limits.
type UploadCfg struct {
	MaxBytes int `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// IdentifyCfg configures identification orchestration.
type IdentifyCfg struct {
	Budget time.Duration `mapstructure:"budget" yaml:"budget"` // wall-clock ceiling per request
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Gemini: GeminiCfg{
			APIKey:          "${GEMINI_API_KEY}",
			BaseURL:         providers.GeminiBaseURL,
			Models:          append([]string(nil), providers.DefaultModels...),
			MaxRetries:      3,
			RetryBaseDelay:  time.Second,
			FailoverDelay:   500 * time.Millisecond,
			Timeout:         60 * time.Second,
			Temperature:     0.2,
			MaxOutputTokens: 2048,
		},
		Pexels: PexelsCfg{
			APIKey: "${PEXELS_API_KEY}",
		},
		Upload: UploadCfg{
			MaxBytes: 7 << 20,
		},
		Identify: IdentifyCfg{
			Budget: 50 * time.Second,
		},
	}
}

// ListenAddr returns the host:port the server binds to.
func (c *Config) ListenAddr() string {
	host := c.Server.Host
	if host == "" {
		host = "0.0.0.0"
	}
	port := c.Server.Port
	if port == 0 {
		port = 8080
	}
	return hostPort(host, port)
}

// ToGeminiConfig converts the config to a providers.GeminiConfig,
// resolving ${ENV_VAR} references in the API key.
func (c *Config) ToGeminiConfig() providers.GeminiConfig {
	return providers.GeminiConfig{
		APIKey:          ResolveEnvVars(c.Gemini.APIKey),
		BaseURL:         c.Gemini.BaseURL,
		Models:          c.Gemini.Models,
		MaxRetries:      c.Gemini.MaxRetries,
		RetryBaseDelay:  c.Gemini.RetryBaseDelay,
		FailoverDelay:   c.Gemini.FailoverDelay,
		Timeout:         c.Gemini.Timeout,
		Temperature:     c.Gemini.Temperature,
		MaxOutputTokens: c.Gemini.MaxOutputTokens,
	}
}

// PexelsAPIKey returns the photo search API key with ${ENV_VAR}
// references resolved. Empty means placeholder-only mode.
func (c *Config) PexelsAPIKey() string {
	return ResolveEnvVars(c.Pexels.APIKey)
}
