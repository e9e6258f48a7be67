package config

// Package config provides structures and utilities for managing application configuration.

// EmbeddedConfig holds the content of the configuration file, typically passed from main.go.
type EmbeddedConfig []byte

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the logging level (e.g., "INFO", "DEBUG").
	Level string `yaml:"level"`
}

// SystemConfig holds system-wide settings.
type SystemConfig struct {
	// Timezone is the application timezone (e.g., "UTC", "Asia/Tokyo").
	Timezone string `yaml:"timezone"`
	// Logging is the logging configuration.
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Port is the TCP port the server listens on. The PORT environment
	// variable takes precedence over this value.
	Port int `yaml:"port"`
}

// SlackConfig holds Slack API credentials.
type SlackConfig struct {
	// BotToken is the xoxb- bot token used for Web API calls.
	BotToken string `yaml:"bot_token"`
	// SigningSecret verifies the signature of incoming event requests.
	SigningSecret string `yaml:"signing_secret"`
}

// RetryConfig holds configuration for the model call retry mechanism.
type RetryConfig struct {
	MaxAttempts     int     `yaml:"max_attempts"`     // MaxAttempts is the maximum number of attempts including the first.
	InitialInterval int     `yaml:"initial_interval"` // InitialInterval is the initial backoff interval in milliseconds.
	MaxInterval     int     `yaml:"max_interval"`     // MaxInterval is the maximum backoff interval in milliseconds.
	Factor          float64 `yaml:"factor"`           // Factor is the backoff multiplier (e.g., 2.0 for exponential backoff).
}

// GeminiConfig holds settings for the Gemini generative model.
type GeminiConfig struct {
	// APIKey is the Gemini API key. When empty the assistant degrades to a
	// fixed apology instead of refusing to start.
	APIKey string `yaml:"api_key"`
	// Model is the model identifier (e.g., "gemini-2.0-flash").
	Model string `yaml:"model"`
	// Retry is the retry configuration for model calls.
	Retry RetryConfig `yaml:"retry"`
}

// DocumentConfig describes one knowledge catalog entry.
type DocumentConfig struct {
	Keyword     string `yaml:"keyword"`     // Keyword is the topic name the classifier answers with.
	Filename    string `yaml:"filename"`    // Filename is the document file within the store.
	Description string `yaml:"description"` // Description tells the classifier what the document covers.
}

// GCSConfig holds Google Cloud Storage settings for the document store.
type GCSConfig struct {
	Bucket string `yaml:"bucket"`
	Prefix string `yaml:"prefix"`
}

// KnowledgeConfig holds the document catalog and its backing store.
type KnowledgeConfig struct {
	// Store selects the document store backend: "embed" or "gcs".
	Store string `yaml:"store"`
	// GCS configures the "gcs" backend.
	GCS GCSConfig `yaml:"gcs"`
	// Documents is the knowledge catalog.
	Documents []DocumentConfig `yaml:"documents"`
}

// PoolConfig holds connection pool settings.
type PoolConfig struct {
	MaxOpenConns           int `yaml:"max_open_conns"`
	MaxIdleConns           int `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int `yaml:"conn_max_lifetime_minutes"`
}

// DatastoreConfig holds settings for the exchange datastore.
type DatastoreConfig struct {
	// Type selects the dialect: "sqlite", "postgres" or "mysql".
	Type     string     `yaml:"type"`
	Host     string     `yaml:"host"`
	Port     int        `yaml:"port"`
	Database string     `yaml:"database"`
	User     string     `yaml:"user"`
	Password string     `yaml:"password"`
	Sslmode  string     `yaml:"sslmode"`
	Pool     PoolConfig `yaml:"pool"`
}

// ExportConfig holds settings for the periodic Parquet export of the exchange log.
type ExportConfig struct {
	Enabled         bool   `yaml:"enabled"`
	IntervalMinutes int    `yaml:"interval_minutes"`
	// Directory is the local output directory. Ignored when GCSBucket is set.
	Directory string `yaml:"directory"`
	GCSBucket string `yaml:"gcs_bucket"`
	GCSPrefix string `yaml:"gcs_prefix"`
	// Compression is the Parquet compression codec ("SNAPPY", "GZIP", "NONE").
	Compression string `yaml:"compression"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`
	// Exporter selects the OTLP transport: "http" or "grpc".
	Exporter string `yaml:"exporter"`
	// Endpoint is the OTLP collector endpoint (host:port).
	Endpoint string `yaml:"endpoint"`
}

// BotConfig holds all configuration under the "slackchatbot" top-level key.
type BotConfig struct {
	System    SystemConfig    `yaml:"system"`
	Server    ServerConfig    `yaml:"server"`
	Slack     SlackConfig     `yaml:"slack"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Datastore DatastoreConfig `yaml:"datastore"`
	Export    ExportConfig    `yaml:"export"`
	Tracing   TracingConfig   `yaml:"tracing"`
}

// Config is the root structure for the entire application configuration.
type Config struct {
	Bot BotConfig `yaml:"slackchatbot"`
}

// NewConfig returns a new instance of Config with default values.
func NewConfig() *Config {
	return &Config{
		Bot: BotConfig{
			System: SystemConfig{
				Timezone: "UTC",
				Logging:  LoggingConfig{Level: "INFO"},
			},
			Server: ServerConfig{Port: 8000},
			Gemini: GeminiConfig{
				Model: "gemini-2.0-flash",
				Retry: RetryConfig{
					MaxAttempts:     3,
					InitialInterval: 1000,
					MaxInterval:     30000,
					Factor:          2.0,
				},
			},
			Knowledge: KnowledgeConfig{Store: "embed"},
			Datastore: DatastoreConfig{
				Type:     "sqlite",
				Database: "slackchatbot.db",
				Pool: PoolConfig{
					MaxOpenConns: 10,
					MaxIdleConns: 5,
				},
			},
			Export: ExportConfig{
				IntervalMinutes: 60,
				Compression:     "SNAPPY",
			},
			Tracing: TracingConfig{Exporter: "http"},
		},
	}
}
