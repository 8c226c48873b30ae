package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// Server
	Port        string `validate:"required,numeric"`
	Environment string `validate:"oneof=development production test"`

	Database DatabaseConfig
	WHO      WHOConfig
	Cache    CacheConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

type DatabaseConfig struct {
	Type     string `validate:"oneof=mongodb none"`
	URI      string
	Name     string `validate:"required"`
	Host     string
	Port     string
	Username string
	Password string

	// Connection pool settings
	MaxConnections int `validate:"gte=1"`
	MinConnections int `validate:"gte=0"`
	MaxIdleTime    time.Duration
}

// WHOConfig drives every outbound call to the Global Health Observatory.
type WHOConfig struct {
	BaseURL        string        `validate:"required,url"`
	Timeout        time.Duration `validate:"gt=0"`
	MaxRetries     int           `validate:"gte=0,lte=5"`
	RetryBackoff   time.Duration
	DefaultCountry string `validate:"len=3"`
	SeriesPoints   int    `validate:"gte=2"`
}

type CacheConfig struct {
	TTL        time.Duration `validate:"gt=0"`
	MaxEntries int64         `validate:"gt=0"`

	// Redis is optional; an empty address keeps the cache in-process only.
	RedisAddress  string
	RedisPassword string
	RedisDB       int
}

type SecurityConfig struct {
	RateLimitPerMin int `validate:"gt=0"`
	RateLimitBurst  int `validate:"gt=0"`
	AllowedOrigins  []string
	TrustedProxies  []string
}

type LoggingConfig struct {
	Level   string `validate:"oneof=trace debug info warn error"`
	FileDir string
}

var cfg *Config

// Load initializes the configuration
func Load() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg = FromEnv()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	return nil
}

// FromEnv builds a Config from the process environment without touching .env files.
func FromEnv() *Config {
	return &Config{
		Port:        getEnv("PORT", "3001"),
		Environment: getEnv("ENVIRONMENT", "development"),

		Database: DatabaseConfig{
			Type:     getEnv("DB_TYPE", "mongodb"),
			URI:      getEnv("MONGODB_URI", ""),
			Name:     getEnv("DB_NAME", "maternal-health"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),

			MaxConnections: getEnvAsInt("DB_MAX_CONNECTIONS", 100),
			MinConnections: getEnvAsInt("DB_MIN_CONNECTIONS", 10),
			MaxIdleTime:    getEnvAsDuration("DB_MAX_IDLE_TIME", "30m"),
		},

		WHO: WHOConfig{
			BaseURL:        getEnv("WHO_API_BASE_URL", "https://ghoapi.azureedge.net/api"),
			Timeout:        getEnvAsDuration("WHO_TIMEOUT", "15s"),
			MaxRetries:     getEnvAsInt("WHO_MAX_RETRIES", 2),
			RetryBackoff:   getEnvAsDuration("WHO_RETRY_BACKOFF", "500ms"),
			DefaultCountry: getEnv("WHO_DEFAULT_COUNTRY", "RWA"),
			SeriesPoints:   getEnvAsInt("WHO_SERIES_POINTS", 6),
		},

		Cache: CacheConfig{
			TTL:           getEnvAsDuration("CACHE_TTL", "30m"),
			MaxEntries:    int64(getEnvAsInt("CACHE_MAX_ENTRIES", 10000)),
			RedisAddress:  getEnv("REDIS_ADDRESS", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvAsInt("REDIS_DB", 0),
		},

		Security: SecurityConfig{
			RateLimitPerMin: getEnvAsInt("RATE_LIMIT_PER_MIN", 60),
			RateLimitBurst:  getEnvAsInt("RATE_LIMIT_BURST", 20),
			AllowedOrigins:  getEnvAsSlice("FRONTEND_URL", []string{"http://localhost:3000"}),
			TrustedProxies:  getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},

		Logging: LoggingConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			FileDir: getEnv("LOG_DIR", "./storage/logs"),
		},
	}
}

// Get returns the loaded configuration
func Get() *Config {
	if cfg == nil {
		logrus.Fatal("Configuration not loaded. Call Load() first")
	}
	return cfg
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks struct constraints and the cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Database.Type == "mongodb" && c.Database.URI == "" {
		if c.Database.Host == "" || c.Database.Port == "" {
			return fmt.Errorf("database URI or host/port must be provided")
		}
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("DB_MIN_CONNECTIONS (%d) exceeds DB_MAX_CONNECTIONS (%d)",
			c.Database.MinConnections, c.Database.MaxConnections)
	}

	if strings.ToUpper(c.WHO.DefaultCountry) != c.WHO.DefaultCountry {
		return fmt.Errorf("WHO_DEFAULT_COUNTRY must be an upper-case ISO3 code")
	}

	return nil
}

// BuildDatabaseURI constructs the database URI if not provided
func (c *Config) BuildDatabaseURI() string {
	if c.Database.URI != "" {
		return c.Database.URI
	}

	switch c.Database.Type {
	case "mongodb":
		if c.Database.Username != "" && c.Database.Password != "" {
			return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s",
				c.Database.Username,
				c.Database.Password,
				c.Database.Host,
				c.Database.Port,
				c.Database.Name,
			)
		}
		return fmt.Sprintf("mongodb://%s:%s/%s",
			c.Database.Host,
			c.Database.Port,
			c.Database.Name,
		)
	default:
		return ""
	}
}

// IsProduction reports whether gin should run in release mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
