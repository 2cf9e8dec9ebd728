// Package storage provides durable key/value storage for client state.
//
// It plays the role a browser's local storage plays for a web client: a small
// set of string keys that survive process restarts.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Well-known keys.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyIdentity     = "auth-storage"
)

// Common errors for storage construction.
var (
	ErrInvalidConfig = errors.New("invalid storage configuration")
	ErrInvalidDriver = errors.New("invalid storage driver")
)

// Storage is durable string key/value storage.
type Storage interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Close releases underlying resources.
	Close() error
}

// Driver names a storage backend.
type Driver string

const (
	DriverMemory Driver = "memory"
	DriverSQLite Driver = "sqlite"
	DriverRedis  Driver = "redis"
)

type config struct {
	sqlitePath  string
	redisClient *redis.Client
	redisPrefix string
	redisTTL    time.Duration
}

// Option configures Open.
type Option func(*config)

// WithSQLitePath sets the database file for the sqlite driver.
func WithSQLitePath(path string) Option {
	return func(c *config) {
		c.sqlitePath = path
	}
}

// WithRedisClient sets the client for the redis driver.
func WithRedisClient(client *redis.Client) Option {
	return func(c *config) {
		c.redisClient = client
	}
}

// WithRedisPrefix namespaces every redis key.
func WithRedisPrefix(prefix string) Option {
	return func(c *config) {
		c.redisPrefix = prefix
	}
}

// WithRedisTTL sets an expiry on every key written. Zero means no expiry.
func WithRedisTTL(ttl time.Duration) Option {
	return func(c *config) {
		c.redisTTL = ttl
	}
}

// Open creates a Storage for the given driver.
// The sqlite driver requires WithSQLitePath, the redis driver WithRedisClient.
func Open(driver Driver, opts ...Option) (Storage, error) {
	cfg := &config{redisPrefix: "prepdesk:"}
	for _, opt := range opts {
		opt(cfg)
	}

	switch driver {
	case DriverMemory:
		return NewMemory(), nil

	case DriverSQLite:
		if cfg.sqlitePath == "" {
			return nil, ErrInvalidConfig
		}
		return NewSQLite(cfg.sqlitePath)

	case DriverRedis:
		if cfg.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		return &redisStore{
			client: cfg.redisClient,
			prefix: cfg.redisPrefix,
			ttl:    cfg.redisTTL,
		}, nil

	default:
		return nil, ErrInvalidDriver
	}
}
