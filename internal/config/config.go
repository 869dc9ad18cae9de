package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"    validate:"required"`
	Queue    QueueConfig    `mapstructure:"queue"    validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
	Worker   WorkerConfig   `mapstructure:"worker"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// BaseURL is the public origin used to build short_url in responses.
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"               validate:"required"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// RedisConfig addresses the Redis instance backing the queues and the cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"     validate:"required,hostname_port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"       validate:"gte=0"`
}

// QueueConfig selects the queue backend and its keys.
type QueueConfig struct {
	// Backend is "redis" for a shared queue or "memory" for a single process.
	Backend      string        `mapstructure:"backend"       validate:"required,oneof=redis memory"`
	JobKey       string        `mapstructure:"job_key"       validate:"required"`
	AnalyticsKey string        `mapstructure:"analytics_key" validate:"required"`
	PollTimeout  time.Duration `mapstructure:"poll_timeout"  validate:"gt=0"`

	// MemorySize bounds the in-process queues when Backend is "memory".
	// The analytics queue keeps the newest MemorySize events.
	MemorySize int `mapstructure:"memory_size" validate:"gt=0"`
}

// CacheConfig controls the redirect cache.
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl" validate:"gt=0"`
}

// WorkerConfig controls the background job workers.
type WorkerConfig struct {
	Concurrency     int           `mapstructure:"concurrency"      validate:"gte=1"`
	MetricsPort     int           `mapstructure:"metrics_port"     validate:"gt=0,lt=65536"`
	ScreenshotDelay time.Duration `mapstructure:"screenshot_delay" validate:"gte=0"`
	MetadataTimeout time.Duration `mapstructure:"metadata_timeout" validate:"gt=0"`

	// RunInServer starts a worker pool inside the HTTP server process.
	RunInServer bool `mapstructure:"run_in_server"`
}
