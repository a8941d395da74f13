package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration options for the task service
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	AI         AIConfig         `yaml:"ai"`
	Auth       AuthConfig       `yaml:"auth"`
	Validation ValidationConfig `yaml:"validation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds HTTP listener configuration
type ServerConfig struct {
	Host            string        `yaml:"host" env:"TASKAPP_SERVER_HOST"`
	Port            int           `yaml:"port" env:"TASKAPP_SERVER_PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"TASKAPP_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"TASKAPP_SERVER_WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"TASKAPP_SERVER_SHUTDOWN_TIMEOUT"`
	CORSOrigins     []string      `yaml:"cors_origins" env:"TASKAPP_SERVER_CORS_ORIGINS"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"TASKAPP_SERVER_MAX_BODY_BYTES"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver       string        `yaml:"driver" env:"TASKAPP_DB_DRIVER"`
	Path         string        `yaml:"path" env:"TASKAPP_DB_PATH"`
	DSN          string        `yaml:"dsn" env:"TASKAPP_DB_DSN"`
	Host         string        `yaml:"host" env:"TASKAPP_DB_HOST"`
	Port         int           `yaml:"port" env:"TASKAPP_DB_PORT"`
	User         string        `yaml:"user" env:"TASKAPP_DB_USER"`
	Password     string        `yaml:"password" env:"TASKAPP_DB_PASSWORD"`
	Name         string        `yaml:"name" env:"TASKAPP_DB_NAME"`
	SSLMode      string        `yaml:"sslmode" env:"TASKAPP_DB_SSLMODE"`
	QueryTimeout time.Duration `yaml:"query_timeout" env:"TASKAPP_DB_QUERY_TIMEOUT"`
}

// AIConfig holds LLM provider configuration
type AIConfig struct {
	Provider        string        `yaml:"provider" env:"TASKAPP_AI_PROVIDER"`
	OpenAIAPIKey    string        `yaml:"openai_api_key" env:"OPENAI_API_KEY"`
	AnthropicAPIKey string        `yaml:"anthropic_api_key" env:"ANTHROPIC_API_KEY"`
	Model           string        `yaml:"model" env:"TASKAPP_AI_MODEL"`
	BaseURL         string        `yaml:"base_url" env:"TASKAPP_AI_BASE_URL"`
	MaxTokens       int           `yaml:"max_tokens" env:"TASKAPP_AI_MAX_TOKENS"`
	Timeout         time.Duration `yaml:"timeout" env:"TASKAPP_AI_TIMEOUT"`
}

// AuthConfig holds bearer-token configuration. An empty secret disables auth.
type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret" env:"TASKAPP_AUTH_JWT_SECRET"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"TASKAPP_AUTH_TOKEN_TTL"`
	Issuer    string        `yaml:"issuer" env:"TASKAPP_AUTH_ISSUER"`
}

// Limits enforced by the tasks table CHECK constraints. Configured
// validation may be stricter but never looser.
const (
	SchemaTitleMaxLength = 255
	SchemaPriorityMin    = 1
	SchemaPriorityMax    = 5
)

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMinLength int `yaml:"title_min_length" env:"TASKAPP_VALIDATION_TITLE_MIN"`
	TitleMaxLength int `yaml:"title_max_length" env:"TASKAPP_VALIDATION_TITLE_MAX"`
	PriorityMin    int `yaml:"priority_min" env:"TASKAPP_VALIDATION_PRIORITY_MIN"`
	PriorityMax    int `yaml:"priority_max" env:"TASKAPP_VALIDATION_PRIORITY_MAX"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `yaml:"level" env:"TASKAPP_LOG_LEVEL"`
	Format string `yaml:"format" env:"TASKAPP_LOG_FORMAT"`
}

// Supported values for the enumerated settings.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	ProviderAuto      = "auto"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderOffline   = "offline"

	FormatJSON    = "json"
	FormatConsole = "console"
)

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            3001,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
			MaxBodyBytes:    1 << 20,
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			Path:         "data/tasks.db",
			Host:         "localhost",
			Port:         5432,
			User:         "postgres",
			Name:         "tasks",
			SSLMode:      "disable",
			QueryTimeout: 10 * time.Second,
		},
		AI: AIConfig{
			Provider:  ProviderAuto,
			MaxTokens: 1024,
			Timeout:   30 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
			Issuer:   "taskapp",
		},
		Validation: ValidationConfig{
			TitleMinLength: 3,
			TitleMaxLength: SchemaTitleMaxLength,
			PriorityMin:    SchemaPriorityMin,
			PriorityMax:    SchemaPriorityMax,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: FormatJSON,
		},
	}
}

// Address returns the host:port the HTTP server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// PostgresDSN returns the configured DSN, or one assembled from the
// discrete connection settings.
func (c *Config) PostgresDSN() string {
	if c.Database.DSN != "" {
		return c.Database.DSN
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:   "/" + c.Database.Name,
	}
	if c.Database.Password != "" {
		u.User = url.UserPassword(c.Database.User, c.Database.Password)
	} else if c.Database.User != "" {
		u.User = url.User(c.Database.User)
	}
	if c.Database.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(c.Database.SSLMode)
	}
	return u.String()
}

// AuthEnabled reports whether bearer tokens are required
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}

// LoadFromEnvironment loads configuration from environment variables.
// Unparseable numeric and duration values are ignored.
func (c *Config) LoadFromEnvironment() error {
	// Server configuration
	if host := os.Getenv("TASKAPP_SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := firstEnv("TASKAPP_SERVER_PORT", "PORT"); port != "" {
		c.Server.Port = ParseIntWithFallback(port, c.Server.Port)
	}
	if timeout := os.Getenv("TASKAPP_SERVER_READ_TIMEOUT"); timeout != "" {
		c.Server.ReadTimeout = ParseDurationWithFallback(timeout, c.Server.ReadTimeout)
	}
	if timeout := os.Getenv("TASKAPP_SERVER_WRITE_TIMEOUT"); timeout != "" {
		c.Server.WriteTimeout = ParseDurationWithFallback(timeout, c.Server.WriteTimeout)
	}
	if timeout := os.Getenv("TASKAPP_SERVER_SHUTDOWN_TIMEOUT"); timeout != "" {
		c.Server.ShutdownTimeout = ParseDurationWithFallback(timeout, c.Server.ShutdownTimeout)
	}
	if origins := os.Getenv("TASKAPP_SERVER_CORS_ORIGINS"); origins != "" {
		c.Server.CORSOrigins = splitList(origins)
	}
	if limit := os.Getenv("TASKAPP_SERVER_MAX_BODY_BYTES"); limit != "" {
		if n, err := strconv.ParseInt(limit, 10, 64); err == nil {
			c.Server.MaxBodyBytes = n
		}
	}

	// Database configuration
	if driver := os.Getenv("TASKAPP_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if path := os.Getenv("TASKAPP_DB_PATH"); path != "" {
		c.Database.Path = path
	}
	if dsn := firstEnv("TASKAPP_DB_DSN", "DATABASE_URL"); dsn != "" {
		c.Database.DSN = dsn
	}
	if host := os.Getenv("TASKAPP_DB_HOST"); host != "" {
		c.Database.Host = host
	}
	if port := os.Getenv("TASKAPP_DB_PORT"); port != "" {
		c.Database.Port = ParseIntWithFallback(port, c.Database.Port)
	}
	if user := os.Getenv("TASKAPP_DB_USER"); user != "" {
		c.Database.User = user
	}
	if password := os.Getenv("TASKAPP_DB_PASSWORD"); password != "" {
		c.Database.Password = password
	}
	if name := os.Getenv("TASKAPP_DB_NAME"); name != "" {
		c.Database.Name = name
	}
	if mode := os.Getenv("TASKAPP_DB_SSLMODE"); mode != "" {
		c.Database.SSLMode = mode
	}
	if timeout := os.Getenv("TASKAPP_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}

	// AI configuration
	if provider := os.Getenv("TASKAPP_AI_PROVIDER"); provider != "" {
		c.AI.Provider = provider
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.AI.OpenAIAPIKey = key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.AI.AnthropicAPIKey = key
	}
	if model := os.Getenv("TASKAPP_AI_MODEL"); model != "" {
		c.AI.Model = model
	}
	if baseURL := firstEnv("TASKAPP_AI_BASE_URL", "OPENAI_BASE_URL"); baseURL != "" {
		c.AI.BaseURL = baseURL
	}
	if tokens := os.Getenv("TASKAPP_AI_MAX_TOKENS"); tokens != "" {
		c.AI.MaxTokens = ParseIntWithFallback(tokens, c.AI.MaxTokens)
	}
	if timeout := os.Getenv("TASKAPP_AI_TIMEOUT"); timeout != "" {
		c.AI.Timeout = ParseDurationWithFallback(timeout, c.AI.Timeout)
	}

	// Auth configuration
	if secret := os.Getenv("TASKAPP_AUTH_JWT_SECRET"); secret != "" {
		c.Auth.JWTSecret = secret
	}
	if ttl := os.Getenv("TASKAPP_AUTH_TOKEN_TTL"); ttl != "" {
		c.Auth.TokenTTL = ParseDurationWithFallback(ttl, c.Auth.TokenTTL)
	}
	if issuer := os.Getenv("TASKAPP_AUTH_ISSUER"); issuer != "" {
		c.Auth.Issuer = issuer
	}

	// Validation configuration
	if minLen := os.Getenv("TASKAPP_VALIDATION_TITLE_MIN"); minLen != "" {
		c.Validation.TitleMinLength = ParseIntWithFallback(minLen, c.Validation.TitleMinLength)
	}
	if maxLen := os.Getenv("TASKAPP_VALIDATION_TITLE_MAX"); maxLen != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TitleMaxLength)
	}
	if minPriority := os.Getenv("TASKAPP_VALIDATION_PRIORITY_MIN"); minPriority != "" {
		c.Validation.PriorityMin = ParseIntWithFallback(minPriority, c.Validation.PriorityMin)
	}
	if maxPriority := os.Getenv("TASKAPP_VALIDATION_PRIORITY_MAX"); maxPriority != "" {
		c.Validation.PriorityMax = ParseIntWithFallback(maxPriority, c.Validation.PriorityMax)
	}

	// Logging configuration
	if level := os.Getenv("TASKAPP_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TASKAPP_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate server configuration
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return &ConfigError{Field: "server.port", Message: "port must be between 1 and 65535"}
	}
	if c.Server.ReadTimeout <= 0 {
		return &ConfigError{Field: "server.read_timeout", Message: "read timeout must be positive"}
	}
	if c.Server.WriteTimeout <= 0 {
		return &ConfigError{Field: "server.write_timeout", Message: "write timeout must be positive"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ConfigError{Field: "server.shutdown_timeout", Message: "shutdown timeout must be positive"}
	}
	if c.Server.MaxBodyBytes <= 0 {
		return &ConfigError{Field: "server.max_body_bytes", Message: "body limit must be positive"}
	}

	// Validate database configuration
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return &ConfigError{Field: "database.path", Message: "database path cannot be empty"}
		}
	case DriverPostgres:
		if c.Database.DSN == "" && c.Database.Host == "" {
			return &ConfigError{Field: "database.dsn", Message: "either a DSN or a host is required for postgres"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: fmt.Sprintf("unsupported driver %q", c.Database.Driver)}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}

	// Validate AI configuration
	switch c.AI.Provider {
	case ProviderAuto, ProviderOffline:
	case ProviderOpenAI:
		if c.AI.OpenAIAPIKey == "" {
			return &ConfigError{Field: "ai.openai_api_key", Message: "OPENAI_API_KEY is required for the openai provider"}
		}
	case ProviderAnthropic:
		if c.AI.AnthropicAPIKey == "" {
			return &ConfigError{Field: "ai.anthropic_api_key", Message: "ANTHROPIC_API_KEY is required for the anthropic provider"}
		}
	default:
		return &ConfigError{Field: "ai.provider", Message: fmt.Sprintf("unsupported provider %q", c.AI.Provider)}
	}
	if c.AI.MaxTokens <= 0 {
		return &ConfigError{Field: "ai.max_tokens", Message: "max tokens must be positive"}
	}
	if c.AI.Timeout <= 0 {
		return &ConfigError{Field: "ai.timeout", Message: "AI timeout must be positive"}
	}

	// Validate auth configuration
	if c.AuthEnabled() && c.Auth.TokenTTL <= 0 {
		return &ConfigError{Field: "auth.token_ttl", Message: "token TTL must be positive"}
	}

	// Validate validation configuration
	if c.Validation.TitleMinLength < 1 {
		return &ConfigError{Field: "validation.title_min_length", Message: "title minimum length must be at least 1"}
	}
	if c.Validation.TitleMaxLength < c.Validation.TitleMinLength {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be greater than minimum length"}
	}
	if c.Validation.TitleMaxLength > SchemaTitleMaxLength {
		return &ConfigError{Field: "validation.title_max_length", Message: fmt.Sprintf("title maximum length must not exceed %d", SchemaTitleMaxLength)}
	}
	if c.Validation.PriorityMin < SchemaPriorityMin {
		return &ConfigError{Field: "validation.priority_min", Message: fmt.Sprintf("priority minimum must be at least %d", SchemaPriorityMin)}
	}
	if c.Validation.PriorityMax > SchemaPriorityMax {
		return &ConfigError{Field: "validation.priority_max", Message: fmt.Sprintf("priority maximum must not exceed %d", SchemaPriorityMax)}
	}
	if c.Validation.PriorityMax < c.Validation.PriorityMin {
		return &ConfigError{Field: "validation.priority_max", Message: "priority maximum must not be below minimum"}
	}

	// Validate logging configuration
	if c.Logging.Format != FormatJSON && c.Logging.Format != FormatConsole {
		return &ConfigError{Field: "logging.format", Message: "log format must be json or console"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
