package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. SHORTLINK_DATABASE_URL.
const EnvPrefix = "SHORTLINK"

// ErrMemoryQueueNeedsInProcessWorkers is returned when the in-memory queue is
// selected without running workers in the same process.
var ErrMemoryQueueNeedsInProcessWorkers = errors.New(
	"queue.backend=memory requires worker.run_in_server=true",
)

// setDefaults registers the default value of every key. Registering a key is
// also what lets viper resolve it from the environment during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.base_url", "http://localhost:8080")

	v.SetDefault("database.url", "")
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("queue.backend", "redis")
	v.SetDefault("queue.job_key", "job_queue")
	v.SetDefault("queue.analytics_key", "analytics_queue")
	v.SetDefault("queue.poll_timeout", time.Second)
	v.SetDefault("queue.memory_size", 1024)

	v.SetDefault("cache.ttl", time.Hour)

	v.SetDefault("worker.concurrency", 5)
	v.SetDefault("worker.metrics_port", 9090)
	v.SetDefault("worker.screenshot_delay", 2*time.Second)
	v.SetDefault("worker.metadata_timeout", 10*time.Second)
	v.SetDefault("worker.run_in_server", false)
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Optional config file: ./config.yaml
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate applies struct tag validation and the cross-field rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Queue.Backend == "memory" && !cfg.Worker.RunInServer {
		return fmt.Errorf("config validation failed: %w", ErrMemoryQueueNeedsInProcessWorkers)
	}

	return nil
}
