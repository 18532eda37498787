package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TRANSCRIPTFLOW_SERVER_PORT.
const EnvPrefix = "TRANSCRIPTFLOW"

var (
	once    sync.Once
	initErr error
)

// Init initializes the configuration system
// This should be called once at application startup
func Init() error {
	once.Do(func() {
		initErr = load()
	})

	return initErr
}

// Reset clears viper state and allows Init to run again. Used by tests.
func Reset() {
	viper.Reset()
	once = sync.Once{}
	initErr = nil
}

func load() error {
	// .env is a convenience for local development; a missing file is fine
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	setDefaults()

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	configPath := filepath.Clean("./config/settings.yaml")
	viper.SetConfigFile(configPath)

	if err := viper.ReadInConfig(); err != nil {
		if !os.IsNotExist(err) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	}

	if err := validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetConfig returns the current configuration as a struct
// Init() must be called before using this
func GetConfig() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return &config, nil
}

// GetString returns a string config value
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetDuration returns a time.Duration config value
func GetDuration(key string) time.Duration {
	return viper.GetDuration(key)
}

// validate validates the configuration using Viper values
func validate() error {
	port := viper.GetInt("server.port")
	if port <= 0 || port > 65535 {
		return fmt.Errorf("invalid server port: %d", port)
	}

	switch viper.GetString("database.driver") {
	case "sqlite":
		if viper.GetString("database.path") == "" {
			return fmt.Errorf("database.path is required for the sqlite driver")
		}
	case "postgres":
		if viper.GetString("database.dsn") == "" {
			return fmt.Errorf("database.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", viper.GetString("database.driver"))
	}

	switch viper.GetString("cache.backend") {
	case "memory", "redis", "database":
	default:
		return fmt.Errorf("unsupported cache backend: %q", viper.GetString("cache.backend"))
	}

	switch viper.GetString("youtube.channel_backend") {
	case "auto", "api", "ytdlp":
	default:
		return fmt.Errorf("unsupported channel backend: %q", viper.GetString("youtube.channel_backend"))
	}

	if err := validateSecrets(); err != nil {
		return err
	}

	if viper.GetInt("jobs.workers") <= 0 {
		viper.Set("jobs.workers", 4)
	}
	if viper.GetInt("jobs.queue_size") <= 0 {
		viper.Set("jobs.queue_size", 64)
	}
	if viper.GetInt("jobs.max_limit") <= 0 {
		viper.Set("jobs.max_limit", 500)
	}

	return nil
}

// validateSecrets refuses placeholder credentials in production
func validateSecrets() error {
	env := viper.GetString("environment")
	isProduction := env == "production" || env == "prod"

	placeholders := []string{"YOUR_KEY_HERE", "YOUR_API_KEY", "changeme", "CHANGEME"}

	checks := map[string]string{
		"youtube.api_key":     "YouTube Data API key",
		"auth.dev_auth_token": "development auth token",
	}

	for key, label := range checks {
		value := viper.GetString(key)
		for _, placeholder := range placeholders {
			if value != placeholder {
				continue
			}
			if isProduction {
				return fmt.Errorf("invalid %s: cannot use placeholder values in production", label)
			}
			slog.Warn("configuration uses a placeholder value", "key", key)
			break
		}
	}

	if isProduction && viper.GetBool("auth.dev_auth_enabled") {
		return fmt.Errorf("development auth cannot be enabled in production")
	}

	return nil
}

// Validate validates a Config struct (for testing)
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required for the postgres driver")
	}

	if c.Jobs.Workers <= 0 {
		c.Jobs.Workers = 4
	}

	if c.Jobs.QueueSize <= 0 {
		c.Jobs.QueueSize = 64
	}

	if c.Jobs.MaxLimit <= 0 {
		c.Jobs.MaxLimit = 500
	}

	return nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("environment", "development")

	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 60*time.Second)
	viper.SetDefault("server.shutdown_timeout", 15*time.Second)
	viper.SetDefault("server.max_header_bytes", 1048576)
	viper.SetDefault("server.max_body_bytes", 1048576)

	// Database defaults
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.path", "./data/transcriptflow.db")
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_connections", 10)
	viper.SetDefault("database.max_idle_connections", 5)
	viper.SetDefault("database.connection_max_lifetime", 30*time.Minute)
	viper.SetDefault("database.verbose", false)

	// Redis defaults
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.key_prefix", "transcriptflow:")

	// Cache defaults
	viper.SetDefault("cache.backend", "memory")
	viper.SetDefault("cache.transcript_ttl", 7*24*time.Hour)
	viper.SetDefault("cache.memory.max_size_mb", 128)

	// YouTube defaults
	viper.SetDefault("youtube.api_key", "")
	viper.SetDefault("youtube.api_base_url", "https://www.googleapis.com/youtube/v3")
	viper.SetDefault("youtube.base_url", "https://www.youtube.com")
	viper.SetDefault("youtube.channel_backend", "auto")
	viper.SetDefault("youtube.ytdlp_path", "yt-dlp")
	viper.SetDefault("youtube.ytdlp_timeout", 120*time.Second)
	viper.SetDefault("youtube.resolve_timeout", 30*time.Second)
	viper.SetDefault("youtube.fetch_timeout", 30*time.Second)
	viper.SetDefault("youtube.retry_attempts", 3)
	viper.SetDefault("youtube.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36")
	viper.SetDefault("youtube.languages", []string{"en", "en-US", "en-GB"})
	viper.SetDefault("youtube.proxies", []string{})

	// Job defaults
	viper.SetDefault("jobs.workers", 4)
	viper.SetDefault("jobs.queue_size", 64)
	viper.SetDefault("jobs.default_limit", 10)
	viper.SetDefault("jobs.max_limit", 500)
	viper.SetDefault("jobs.throttle", 500*time.Millisecond)
	viper.SetDefault("jobs.ttl", time.Hour)
	viper.SetDefault("jobs.cleanup_interval", 10*time.Minute)

	// Auth defaults
	viper.SetDefault("auth.jwks_url", "")
	viper.SetDefault("auth.dev_auth_enabled", false)
	viper.SetDefault("auth.dev_auth_token", "")

	// Rate limiting defaults
	viper.SetDefault("rate_limiting.enabled", true)
	viper.SetDefault("rate_limiting.endpoints", map[string]int{
		"extract": 2,
		"poll":    10,
		"library": 10,
		"default": 10,
	})

	// Security defaults
	viper.SetDefault("security.enable_cors", true)
	viper.SetDefault("security.cors_origins", []string{"*"})
	viper.SetDefault("security.cors_methods", []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	viper.SetDefault("security.cors_headers", []string{"Content-Type", "Authorization"})

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")

	// CLI client defaults
	viper.SetDefault("client.server", "http://localhost:8080")
	viper.SetDefault("client.token", "")
	viper.SetDefault("client.poll_interval", 2*time.Second)
	viper.SetDefault("client.timeout", 30*time.Second)
}
