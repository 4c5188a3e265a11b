package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	defaultSyncTimeout        = 5 * time.Second
	defaultSyncRetryInterval  = time.Minute
	defaultAnalyticsPerMinute = 120
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Timezone    string `toml:"timezone"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// offline local store size, used when redis is unreachable
	LocalCacheSizeMB int `toml:"local_cache_size_mb"`
	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// workouts
	WorkoutsPath string `toml:"workouts_path"`
	// rewards sync
	SyncTimeout       Duration `toml:"sync_timeout"`
	SyncRetryInterval Duration `toml:"sync_retry_interval"`
	// analytics
	AnalyticsRateLimitPerMin int    `toml:"analytics_rate_limit_per_min"`
	AMQPExchange             string `toml:"amqp_exchange"`
	AMQPBuffer               int    `toml:"amqp_buffer"`
}

// Duration is a time.Duration read from a TOML string, like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("parse duration [%s]: %w", text, err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the section for env, with defaults applied.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config [%s]: %w", path, err)
	}
	return fromToml(&t, env)
}

// Parse is Load for an in-memory TOML document.
func Parse(data, env string) (*Config, error) {
	var t Toml
	if _, err := toml.Decode(data, &t); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return fromToml(&t, env)
}

func fromToml(t *Toml, env string) (*Config, error) {
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env [%s] missing", env)
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.PostgresPort == "" {
		c.PostgresPort = "5432"
	}
	if c.PostgresUser == "" {
		c.PostgresUser = "postgres"
	}
	if c.RedisPort == "" {
		c.RedisPort = "6379"
	}
	if c.LocalCacheSizeMB <= 0 {
		c.LocalCacheSizeMB = 16
	}
	if c.SyncTimeout.Duration <= 0 {
		c.SyncTimeout.Duration = defaultSyncTimeout
	}
	if c.SyncRetryInterval.Duration <= 0 {
		c.SyncRetryInterval.Duration = defaultSyncRetryInterval
	}
	if c.AnalyticsRateLimitPerMin <= 0 {
		c.AnalyticsRateLimitPerMin = defaultAnalyticsPerMinute
	}
	if c.AMQPExchange == "" {
		c.AMQPExchange = "nutrifit.analytics"
	}
}

func (c *Config) validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone [%s]: %w", c.Timezone, err))
	}
	if c.WorkoutsPath == "" {
		errs = append(errs, errors.New("workouts_path not set"))
	}
	return errors.Join(errs...)
}

// Location returns the timezone used to split meals into calendar days.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Clock returns the current time in the configured timezone. Streaks and daily
// logins are counted in calendar days of that zone.
func (c *Config) Clock() func() time.Time {
	loc := c.Location()
	return func() time.Time {
		return time.Now().In(loc)
	}
}
