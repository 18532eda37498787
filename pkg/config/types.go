package config

import "time"

// Config represents the complete application configuration
type Config struct {
	Environment  string          `mapstructure:"environment"`
	Server       ServerConfig    `mapstructure:"server"`
	Database     DatabaseConfig  `mapstructure:"database"`
	Redis        RedisConfig     `mapstructure:"redis"`
	Cache        CacheConfig     `mapstructure:"cache"`
	YouTube      YouTubeConfig   `mapstructure:"youtube"`
	Jobs         JobsConfig      `mapstructure:"jobs"`
	Auth         AuthConfig      `mapstructure:"auth"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
	Security     SecurityConfig  `mapstructure:"security"`
	Logging      LoggingConfig   `mapstructure:"logging"`
	Client       ClientConfig    `mapstructure:"client"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Driver                string        `mapstructure:"driver"`
	Path                  string        `mapstructure:"path"`
	DSN                   string        `mapstructure:"dsn"`
	MaxConnections        int           `mapstructure:"max_connections"`
	MaxIdleConnections    int           `mapstructure:"max_idle_connections"`
	ConnectionMaxLifetime time.Duration `mapstructure:"connection_max_lifetime"`
	Verbose               bool          `mapstructure:"verbose"`
}

// RedisConfig contains redis connection settings
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// CacheConfig contains transcript cache settings
type CacheConfig struct {
	Backend       string            `mapstructure:"backend"`
	TranscriptTTL time.Duration     `mapstructure:"transcript_ttl"`
	Memory        MemoryCacheConfig `mapstructure:"memory"`
}

// MemoryCacheConfig contains in-memory cache settings
type MemoryCacheConfig struct {
	MaxSizeMB int64 `mapstructure:"max_size_mb"`
}

// YouTubeConfig contains settings for the caption and channel collaborators
type YouTubeConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	APIBaseURL     string        `mapstructure:"api_base_url"`
	BaseURL        string        `mapstructure:"base_url"`
	ChannelBackend string        `mapstructure:"channel_backend"`
	YtDlpPath      string        `mapstructure:"ytdlp_path"`
	YtDlpTimeout   time.Duration `mapstructure:"ytdlp_timeout"`
	ResolveTimeout time.Duration `mapstructure:"resolve_timeout"`
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`
	RetryAttempts  int           `mapstructure:"retry_attempts"`
	UserAgent      string        `mapstructure:"user_agent"`
	Languages      []string      `mapstructure:"languages"`
	Proxies        []string      `mapstructure:"proxies"`
}

// JobsConfig contains channel job settings
type JobsConfig struct {
	Workers         int           `mapstructure:"workers"`
	QueueSize       int           `mapstructure:"queue_size"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	MaxLimit        int           `mapstructure:"max_limit"`
	Throttle        time.Duration `mapstructure:"throttle"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// AuthConfig contains Supabase JWT settings
type AuthConfig struct {
	JWKSURL        string `mapstructure:"jwks_url"`
	DevAuthEnabled bool   `mapstructure:"dev_auth_enabled"`
	DevAuthToken   string `mapstructure:"dev_auth_token"`
}

// RateLimitConfig contains per-client request rate settings (requests per second)
type RateLimitConfig struct {
	Enabled   bool           `mapstructure:"enabled"`
	Endpoints map[string]int `mapstructure:"endpoints"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	EnableCORS  bool     `mapstructure:"enable_cors"`
	CORSOrigins []string `mapstructure:"cors_origins"`
	CORSMethods []string `mapstructure:"cors_methods"`
	CORSHeaders []string `mapstructure:"cors_headers"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClientConfig contains settings for the CLI commands that call a running server
type ClientConfig struct {
	Server       string        `mapstructure:"server"`
	Token        string        `mapstructure:"token"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
}
