package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"featuredflags/entity"
)

type Application struct {
	GracefulShutdownTimeout time.Duration
}

type HTTPServer struct {
	Port int
}

type Database struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns a lib/pq connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type Redis struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type CircuitBreaker struct {
	Enabled      bool
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

type Cache struct {
	Namespace      string
	CircuitBreaker CircuitBreaker
}

type Evaluation struct {
	// FixedTime pins "now" for every evaluation; nil means wall-clock time.
	FixedTime *time.Time
}

type Logger struct {
	Level string
	Mode  string // development or production
}

type Swagger struct {
	Enabled bool `json:"enabled"`
}

type Metrics struct {
	Enabled bool
}

type Config struct {
	Application Application
	HTTPServer  HTTPServer
	Database    Database
	Redis       Redis
	Cache       Cache
	Evaluation  Evaluation
	Logger      Logger
	Swagger     Swagger
	Metrics     Metrics
}

func Load() (*Config, error) {
	cfg := &Config{
		Application: Application{
			GracefulShutdownTimeout: parseDurationWithDefault("APPLICATION_GRACEFUL_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		HTTPServer: HTTPServer{
			Port: parseIntWithDefault("HTTP_SERVER_PORT", 8080),
		},
		Database: Database{
			Host:     getEnvWithDefault("DATABASE_HOST", "db"),
			Port:     parseIntWithDefault("DATABASE_PORT", 5432),
			User:     getEnvWithDefault("DATABASE_USER", "featuredflags"),
			Password: getEnvWithDefault("DATABASE_PASSWORD", "featuredflags"),
			Name:     getEnvWithDefault("DATABASE_NAME", "featuredflags"),
			SSLMode:  getEnvWithDefault("DATABASE_SSL_MODE", "disable"),
		},
		Redis: Redis{
			Enabled:      getEnvBoolWithDefault("REDIS_ENABLED", true),
			Addr:         getEnvWithDefault("REDIS_ADDR", "redis:6379"),
			Password:     getEnvWithDefault("REDIS_PASSWORD", ""),
			DB:           parseIntWithDefault("REDIS_DB", 0),
			DialTimeout:  parseDurationWithDefault("REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  parseDurationWithDefault("REDIS_READ_TIMEOUT", 200*time.Millisecond),
			WriteTimeout: parseDurationWithDefault("REDIS_WRITE_TIMEOUT", 200*time.Millisecond),
		},
		Cache: Cache{
			Namespace: getEnvWithDefault("CACHE_NAMESPACE", ""),
			CircuitBreaker: CircuitBreaker{
				Enabled:      getEnvBoolWithDefault("CACHE_CIRCUIT_BREAKER_ENABLED", true),
				MaxRequests:  uint32(parseIntWithDefault("CACHE_CIRCUIT_BREAKER_MAX_REQUESTS", 3)),
				Interval:     parseDurationWithDefault("CACHE_CIRCUIT_BREAKER_INTERVAL", 60*time.Second),
				Timeout:      parseDurationWithDefault("CACHE_CIRCUIT_BREAKER_TIMEOUT", 30*time.Second),
				MinRequests:  uint32(parseIntWithDefault("CACHE_CIRCUIT_BREAKER_MIN_REQUESTS", 3)),
				FailureRatio: parseFloatWithDefault("CACHE_CIRCUIT_BREAKER_FAILURE_RATIO", 0.5),
			},
		},
		Logger: Logger{
			Level: getEnvWithDefault("LOGGER_LEVEL", "info"),
			Mode:  getEnvWithDefault("LOGGER_MODE", "production"),
		},
		Metrics: Metrics{
			Enabled: getEnvBoolWithDefault("METRICS_ENABLED", true),
		},
	}

	cfg.Swagger = Swagger{
		Enabled: getEnvBoolWithDefault("SWAGGER_ENABLED", true),
	}

	if raw := os.Getenv("EVALUATION_FIXED_TIME"); raw != "" {
		fixed, err := time.ParseInLocation(entity.DateLayout, raw, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid EVALUATION_FIXED_TIME %q: %w", raw, err)
		}
		cfg.Evaluation.FixedTime = &fixed
	}

	// Support legacy environment variables
	if port := os.Getenv("APP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.HTTPServer.Port = p
		}
	}
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		cfg.Database.Host = host
	}
	if user := os.Getenv("POSTGRES_USER"); user != "" {
		cfg.Database.User = user
	}
	if password := os.Getenv("POSTGRES_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if name := os.Getenv("POSTGRES_DB"); name != "" {
		cfg.Database.Name = name
	}

	if cfg.Cache.CircuitBreaker.FailureRatio <= 0 || cfg.Cache.CircuitBreaker.FailureRatio > 1 {
		return nil, fmt.Errorf("CACHE_CIRCUIT_BREAKER_FAILURE_RATIO must be in (0, 1], got %v", cfg.Cache.CircuitBreaker.FailureRatio)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func parseDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
