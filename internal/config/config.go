package config

import (
	"github.com/spf13/viper"
)

// MemoryDataFile selects the in-process store instead of a file.
const MemoryDataFile = ":memory:"

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port int    `mapstructure:"PORT"`
	Env  string `mapstructure:"APP_ENV"` // development | production

	// Logging
	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"` // empty = stderr only

	// Storage
	DataFile string `mapstructure:"DATA_FILE"`

	// HTTP
	CORSOrigin         string `mapstructure:"CORS_ORIGIN"`
	RateLimitPerMinute int    `mapstructure:"RATE_LIMIT_PER_MINUTE"` // 0 disables

	// Business
	LowStockThreshold int `mapstructure:"LOW_STOCK_THRESHOLD"`

	// Event queue (optional)
	RedisURL       string `mapstructure:"REDIS_URL"`
	WorkerPoolSize int    `mapstructure:"WORKER_POOL_SIZE"`
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool { return c.Env == "production" }

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Sensible defaults for development. Every key needs a default so that
	// Unmarshal sees env overrides.
	v.SetDefault("PORT", 5000)
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("DATA_FILE", "data.json")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 1000)
	v.SetDefault("LOW_STOCK_THRESHOLD", 5)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("WORKER_POOL_SIZE", 2)

	// Optional .env file for local development; does not fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
