package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the API needs at startup.
type Config struct {
	Env      string `mapstructure:"APP_ENV"`
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	DBDriver string `mapstructure:"DB_DRIVER"` // mysql or sqlite
	DBDSN    string `mapstructure:"DB_DSN_PRIMARY"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTTTL    time.Duration `mapstructure:"JWT_TTL"`

	// Empty RedisAddr disables the order tracking cache.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	TrackCacheTTL time.Duration `mapstructure:"TRACK_CACHE_TTL"`

	CORSOrigin string `mapstructure:"CORS_ORIGIN"`
	Currency   string `mapstructure:"CURRENCY"`

	// Zero PendingOrderTTL disables the expiry worker.
	PendingOrderTTL    time.Duration `mapstructure:"PENDING_ORDER_TTL"`
	ExpiryScanInterval time.Duration `mapstructure:"EXPIRY_SCAN_INTERVAL"`
}

var defaults = map[string]any{
	"APP_ENV":              "development",
	"HTTP_ADDR":            ":8080",
	"LOG_LEVEL":            "info",
	"DB_DRIVER":            "mysql",
	"DB_DSN_PRIMARY":       "root:root@tcp(127.0.0.1:3306)/bachhoa?parseTime=true&charset=utf8mb4&loc=Local",
	"JWT_SECRET":           "",
	"JWT_TTL":              "72h",
	"REDIS_ADDR":           "",
	"REDIS_PASSWORD":       "",
	"TRACK_CACHE_TTL":      "5m",
	"CORS_ORIGIN":          "http://localhost:5173",
	"CURRENCY":             "VND",
	"PENDING_ORDER_TTL":    "0s",
	"EXPIRY_SCAN_INTERVAL": "10m",
}

// Load reads an optional .env file and then the process environment.
// Environment variables always win over .env values.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env is fine; we fall back to the real environment.
	_ = godotenv.Load(envFiles...)

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.DBDriver = strings.ToLower(c.DBDriver)
	if c.DBDriver != "mysql" && c.DBDriver != "sqlite" {
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		c.JWTSecret = "bachhoa-dev-secret"
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.PendingOrderTTL < 0 {
		return fmt.Errorf("PENDING_ORDER_TTL must not be negative")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
