package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for sourcer-engine.
// Configuration comes from a YAML file (config.yaml) with environment
// variable overrides. Secrets (API keys, passwords) must only come from
// environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"8090"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Authentication configuration
	Auth AuthConfig `yaml:"auth"`

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Generation provider selection: "openrouter" or "anthropic".
	LLMProvider string `yaml:"llm_provider" env:"LLM_PROVIDER" env-default:"openrouter"`

	// Pre-configured provider endpoints
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Anthropic  AnthropicConfig  `yaml:"anthropic"`
	Research   ResearchConfig   `yaml:"research"`
	Directory  DirectoryConfig  `yaml:"directory"`

	// Pipeline tuning
	Pipeline PipelineConfig `yaml:"pipeline"`

	// OutreachProfilePath points to the YAML file describing the sender's
	// offering, used for interest generation fallbacks and prompt context.
	OutreachProfilePath string `yaml:"outreach_profile_path" env:"OUTREACH_PROFILE_PATH" env-default:"outreach.yaml"`

	// MigrationsPath is the directory containing SQL migration files.
	MigrationsPath string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
}

// AuthConfig holds authentication-related configuration.
type AuthConfig struct {
	// EnableVerification controls whether JWT tokens are validated against
	// the issuer's JWKS. Set to false for local development.
	EnableVerification bool `yaml:"enable_verification" env:"AUTH_ENABLE_VERIFICATION" env-default:"true"`

	// JWKSEndpointsStr is a comma-separated list of issuer=jwks_url pairs.
	// Format: "issuer1=url1,issuer2=url2"
	JWKSEndpointsStr string `yaml:"jwks_endpoints" env:"JWKS_ENDPOINTS" env-default:""`

	// JWKSEndpoints is the parsed map from JWKSEndpointsStr (not from config file).
	JWKSEndpoints map[string]string `yaml:"-"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"sourcer"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"sourcer_engine"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// OpenRouterConfig holds the OpenAI-compatible generation endpoint.
type OpenRouterConfig struct {
	BaseURL   string `yaml:"base_url" env:"OPENROUTER_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	Model     string `yaml:"model" env:"OPENROUTER_MODEL" env-default:"openai/gpt-4o-mini"`
	APIKey    string `yaml:"-" env:"OPENROUTER_API_KEY"` // Secret - not in YAML
	MaxTokens int    `yaml:"max_tokens" env:"OPENROUTER_MAX_TOKENS" env-default:"2048"`
}

// IsAvailable returns true if the OpenRouter endpoint is configured.
func (c *OpenRouterConfig) IsAvailable() bool {
	return c.BaseURL != "" && c.Model != "" && c.APIKey != ""
}

// AnthropicConfig holds the native Anthropic generation endpoint.
type AnthropicConfig struct {
	Model     string `yaml:"model" env:"ANTHROPIC_MODEL" env-default:"claude-sonnet-4-20250514"`
	APIKey    string `yaml:"-" env:"ANTHROPIC_API_KEY"` // Secret - not in YAML
	MaxTokens int    `yaml:"max_tokens" env:"ANTHROPIC_MAX_TOKENS" env-default:"2048"`
}

// IsAvailable returns true if the Anthropic endpoint is configured.
func (c *AnthropicConfig) IsAvailable() bool {
	return c.Model != "" && c.APIKey != ""
}

// ResearchConfig holds the web-research provider endpoint. The provider
// speaks the OpenAI chat-completions protocol with live web access.
type ResearchConfig struct {
	BaseURL   string `yaml:"base_url" env:"RESEARCH_BASE_URL" env-default:"https://api.perplexity.ai"`
	Model     string `yaml:"model" env:"RESEARCH_MODEL" env-default:"sonar"`
	APIKey    string `yaml:"-" env:"RESEARCH_API_KEY"` // Secret - not in YAML
	MaxTokens int    `yaml:"max_tokens" env:"RESEARCH_MAX_TOKENS" env-default:"1024"`
}

// IsAvailable returns true if the research endpoint is configured.
func (c *ResearchConfig) IsAvailable() bool {
	return c.BaseURL != "" && c.Model != "" && c.APIKey != ""
}

// DirectoryConfig holds the B2B contact directory provider configuration.
// APIKey is the process-wide fallback; per-user keys stored in profiles
// take precedence.
type DirectoryConfig struct {
	BaseURL        string  `yaml:"base_url" env:"DIRECTORY_BASE_URL" env-default:"https://api.apollo.io/api/v1"`
	APIKey         string  `yaml:"-" env:"DIRECTORY_API_KEY"` // Secret - not in YAML
	RequestsPerSec float64 `yaml:"requests_per_sec" env:"DIRECTORY_REQUESTS_PER_SEC" env-default:"2"`
	Burst          int     `yaml:"burst" env:"DIRECTORY_BURST" env-default:"4"`
}

// IsAvailable returns true if a process-wide directory key is configured.
func (c *DirectoryConfig) IsAvailable() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// PipelineConfig holds concurrency and sizing knobs for the search and
// enrichment pipelines.
type PipelineConfig struct {
	// MaxConcurrentUnlocks bounds parallel unlock+enrichment work per request.
	MaxConcurrentUnlocks int `yaml:"max_concurrent_unlocks" env:"PIPELINE_MAX_CONCURRENT_UNLOCKS" env-default:"4"`
	// MaxNameVariants caps the candidate name list sent to the directory.
	MaxNameVariants int `yaml:"max_name_variants" env:"PIPELINE_MAX_NAME_VARIANTS" env-default:"8"`
}

// Load reads configuration from config.yaml with environment variable
// overrides. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	cfg.Auth.JWKSEndpoints = parseJWKSEndpoints(cfg.Auth.JWKSEndpointsStr)

	if err := cfg.validateProvider(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateProvider ensures the selected generation provider is one we know.
func (c *Config) validateProvider() error {
	switch c.LLMProvider {
	case "openrouter", "anthropic":
		return nil
	default:
		return fmt.Errorf("unknown llm_provider %q (expected openrouter or anthropic)", c.LLMProvider)
	}
}

// parseJWKSEndpoints parses the JWKS endpoints string into a map.
// Format: "issuer1=url1,issuer2=url2"
func parseJWKSEndpoints(value string) map[string]string {
	endpoints := make(map[string]string)
	if value == "" {
		return endpoints
	}

	pairs := strings.Split(value, ",")
	for _, pair := range pairs {
		parts := strings.Split(pair, "=")
		if len(parts) == 2 {
			endpoints[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return endpoints
}
