// Package config provides client and fixture-server configuration.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/upscprep/prepdesk/internal/storage"
)

// Upload modes for answer images.
const (
	UploadsDataURL  = "dataurl"
	UploadsSupabase = "supabase"
)

// Config holds client configuration.
type Config struct {
	APIBaseURL    string
	StorageDriver storage.Driver
	StateDir      string
	Redis         RedisConfig
	LogLevel      string
	LogFile       string
	HTTPTimeout   time.Duration
	Uploads       string
	Supabase      SupabaseConfig
}

// RedisConfig configures the redis storage driver.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

// SupabaseConfig configures answer image uploads to Supabase Storage.
type SupabaseConfig struct {
	URL     string
	AnonKey string
	Bucket  string
}

// SQLitePath returns the sqlite storage file inside the state directory.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.StateDir, "state.db")
}

func newViper(prefix string) *viper.Viper {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetEnvPrefix(prefix)
	v.AutomaticEnv()
	return v
}

// Load reads client configuration from PREPDESK_* environment variables.
func Load() (*Config, error) {
	v := newViper("PREPDESK")
	v.SetDefault("API_BASE_URL", "http://localhost:8000")
	v.SetDefault("STORAGE_DRIVER", string(storage.DriverSQLite))
	v.SetDefault("STATE_DIR", defaultStateDir())
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL", time.Duration(0))
	v.SetDefault("REDIS_PREFIX", "prepdesk:")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("HTTP_TIMEOUT", time.Duration(0))
	v.SetDefault("UPLOADS", UploadsDataURL)
	v.SetDefault("SUPABASE_URL", "")
	v.SetDefault("SUPABASE_ANON_KEY", "")
	v.SetDefault("SUPABASE_BUCKET", "answers")

	cfg := &Config{
		APIBaseURL:    strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		StorageDriver: storage.Driver(strings.ToLower(v.GetString("STORAGE_DRIVER"))),
		StateDir:      v.GetString("STATE_DIR"),
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
			Prefix:   v.GetString("REDIS_PREFIX"),
		},
		LogLevel:    v.GetString("LOG_LEVEL"),
		LogFile:     v.GetString("LOG_FILE"),
		HTTPTimeout: v.GetDuration("HTTP_TIMEOUT"),
		Uploads:     strings.ToLower(v.GetString("UPLOADS")),
		Supabase: SupabaseConfig{
			URL:     v.GetString("SUPABASE_URL"),
			AnonKey: v.GetString("SUPABASE_ANON_KEY"),
			Bucket:  v.GetString("SUPABASE_BUCKET"),
		},
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(cfg.StateDir, "prepdesk.log")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("PREPDESK_API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}
	switch c.StorageDriver {
	case storage.DriverMemory:
	case storage.DriverSQLite:
		if c.StateDir == "" {
			return fmt.Errorf("PREPDESK_STATE_DIR cannot be empty")
		}
	case storage.DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("PREPDESK_REDIS_ADDR cannot be empty")
		}
	default:
		return fmt.Errorf("PREPDESK_STORAGE_DRIVER must be memory, sqlite or redis, got %q", c.StorageDriver)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("PREPDESK_HTTP_TIMEOUT must be >= 0")
	}
	switch c.Uploads {
	case UploadsDataURL:
	case UploadsSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return fmt.Errorf("PREPDESK_SUPABASE_URL and PREPDESK_SUPABASE_ANON_KEY are required for supabase uploads")
		}
	default:
		return fmt.Errorf("PREPDESK_UPLOADS must be dataurl or supabase, got %q", c.Uploads)
	}
	return nil
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".prepdesk"
	}
	return filepath.Join(dir, "prepdesk")
}

// ServerConfig holds fixture API server configuration.
type ServerConfig struct {
	Port          string
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	RateLimit     float64
	RateBurst     int
	AllowedOrigin string
}

// LoadServer reads fixture server configuration from FAKEAPI_* environment variables.
func LoadServer() (*ServerConfig, error) {
	v := newViper("FAKEAPI")
	v.SetDefault("PORT", "8000")
	v.SetDefault("ACCESS_SECRET", "dev-access-secret")
	v.SetDefault("REFRESH_SECRET", "dev-refresh-secret")
	v.SetDefault("ACCESS_TTL", 15*time.Minute)
	v.SetDefault("REFRESH_TTL", 7*24*time.Hour)
	v.SetDefault("RATE_LIMIT", 50.0)
	v.SetDefault("RATE_BURST", 100)
	v.SetDefault("ALLOWED_ORIGIN", "*")

	cfg := &ServerConfig{
		Port:          v.GetString("PORT"),
		AccessSecret:  v.GetString("ACCESS_SECRET"),
		RefreshSecret: v.GetString("REFRESH_SECRET"),
		AccessTTL:     v.GetDuration("ACCESS_TTL"),
		RefreshTTL:    v.GetDuration("REFRESH_TTL"),
		RateLimit:     v.GetFloat64("RATE_LIMIT"),
		RateBurst:     v.GetInt("RATE_BURST"),
		AllowedOrigin: v.GetString("ALLOWED_ORIGIN"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("FAKEAPI_PORT cannot be empty")
	}
	if c.AccessSecret == "" || c.RefreshSecret == "" {
		return fmt.Errorf("FAKEAPI_ACCESS_SECRET and FAKEAPI_REFRESH_SECRET cannot be empty")
	}
	if c.AccessSecret == c.RefreshSecret {
		return fmt.Errorf("access and refresh secrets must differ")
	}
	if c.AccessTTL <= 0 || c.RefreshTTL <= 0 {
		return fmt.Errorf("token TTLs must be > 0")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return fmt.Errorf("FAKEAPI_RATE_LIMIT and FAKEAPI_RATE_BURST must be > 0")
	}
	return nil
}

// IsDevelopment returns true when the server still uses the built-in secrets.
func (c *ServerConfig) IsDevelopment() bool {
	return c.AccessSecret == "dev-access-secret"
}
