package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment overrides (CLIMADASH_SERVER_HTTP_PORT, ...)
const EnvPrefix = "CLIMADASH"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/climadash")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindLegacyEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.timezone", d.Server.Timezone)

	v.SetDefault("store.type", d.Store.Type)
	v.SetDefault("store.redis.url", "")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.key_prefix", d.Store.Redis.KeyPrefix)
	v.SetDefault("store.redis.compress", d.Store.Redis.Compress)
	v.SetDefault("store.mongo.uri", "")
	v.SetDefault("store.mongo.database", "")
	v.SetDefault("store.mongo.timeout", d.Store.Mongo.Timeout.String())
	v.SetDefault("store.breaker.enabled", d.Store.Breaker.Enabled)
	v.SetDefault("store.breaker.consecutive_failures", d.Store.Breaker.ConsecutiveFailures)
	v.SetDefault("store.breaker.interval", d.Store.Breaker.Interval.String())
	v.SetDefault("store.breaker.timeout", d.Store.Breaker.Timeout.String())

	v.SetDefault("queue.type", d.Queue.Type)
	v.SetDefault("queue.url", "")
	v.SetDefault("queue.subject", d.Queue.Subject)

	v.SetDefault("ingest.rate_limit", d.Ingest.RateLimit)
	v.SetDefault("ingest.rate_burst", d.Ingest.RateBurst)
	v.SetDefault("ingest.history_limit", d.Ingest.HistoryLimit)
	v.SetDefault("ingest.batch_size", d.Ingest.BatchSize)

	v.SetDefault("analytics.moving_average_window", d.Analytics.MovingAverageWindow)
	v.SetDefault("analytics.forecast_steps", d.Analytics.ForecastSteps)
	v.SetDefault("analytics.include_realtime", d.Analytics.IncludeRealtime)

	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
}

// bindLegacyEnv keeps the dashboard's legacy variable names working
// (MONGODB_URI, DB_NAME and its misspelled twin DB_Name).
func bindLegacyEnv(v *viper.Viper) {
	_ = v.BindEnv("store.mongo.uri", EnvPrefix+"_STORE_MONGO_URI", "MONGODB_URI")
	_ = v.BindEnv("store.mongo.database", EnvPrefix+"_STORE_MONGO_DATABASE", "DB_NAME", "DB_Name")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:     "0.0.0.0",
			HTTPPort: 3000,
			Timezone: "UTC",
		},
		Store: StoreConfig{
			Type: "memory",
			Redis: RedisConfig{
				KeyPrefix: "climadash",
				Compress:  true,
			},
			Mongo: MongoConfig{
				Timeout: 10 * time.Second,
			},
			Breaker: BreakerConfig{
				Enabled:             true,
				ConsecutiveFailures: 5,
				Interval:            time.Minute,
				Timeout:             30 * time.Second,
			},
		},
		Queue: QueueConfig{
			Type:    "memory",
			Subject: "readings.realtime",
		},
		Ingest: IngestConfig{
			RateLimit:    10,
			RateBurst:    20,
			HistoryLimit: 1000,
			BatchSize:    1000,
		},
		Analytics: AnalyticsConfig{
			MovingAverageWindow: 5,
			ForecastSteps:       1,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
