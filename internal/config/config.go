package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Session backends
const (
	SessionBackendSQL   = "sql"
	SessionBackendRedis = "redis"
	SessionBackendMongo = "mongo"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Sessions SessionConfig
	Shopify  ShopifyConfig
	Auth     AuthConfig
	LogLevel zerolog.Level
}

type ServerConfig struct {
	Port            string
	AppURL          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver          string
	URL             string
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type SessionConfig struct {
	Backend       string
	RedisURL      string
	RedisPrefix   string
	MongoURI      string
	MongoDatabase string
}

type ShopifyConfig struct {
	APIKey    string
	APISecret string
}

type AuthConfig struct {
	BcryptCost int
}

// Load reads .env when present and then the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	level, err := zerolog.ParseLevel(strings.ToLower(getEnv("LOG_LEVEL", "info")))
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AppURL:          getEnv("APP_URL", "http://localhost:8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 0),
			ShutdownTimeout: getDurationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DATABASE_DRIVER", "sqlite"),
			URL:             getEnv("DATABASE_URL", "./data/database.sqlite"),
			MaxOpenConns:    getIntEnv("DATABASE_MAX_OPEN_CONNS", 10),
			ConnMaxLifetime: getDurationEnv("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Sessions: SessionConfig{
			Backend:       getEnv("SESSION_BACKEND", SessionBackendSQL),
			RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisPrefix:   getEnv("REDIS_PREFIX", "qrcodes"),
			MongoURI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGODB_DATABASE", "qrcodes"),
		},
		Shopify: ShopifyConfig{
			APIKey:    os.Getenv("SHOPIFY_API_KEY"),
			APISecret: os.Getenv("SHOPIFY_API_SECRET"),
		},
		Auth: AuthConfig{
			BcryptCost: getIntEnv("BCRYPT_COST", 10),
		},
		LogLevel: level,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Sessions.Backend {
	case SessionBackendSQL, SessionBackendRedis, SessionBackendMongo:
	default:
		return fmt.Errorf("invalid SESSION_BACKEND %q: must be sql, redis or mongo", c.Sessions.Backend)
	}
	if !strings.Contains(c.Server.AppURL, "://") {
		return fmt.Errorf("invalid APP_URL %q: must include a scheme", c.Server.AppURL)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
