package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BundleSourceFile     = "file"
	BundleSourceInline   = "inline"
	BundleSourcePostgres = "postgres"
	BundleSourceRedis    = "redis"
)

type Config struct {
	App      AppConfig
	Server   ServerConfig
	Bundle   BundleConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port            string
	AllowedOrigins  []string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

type BundleConfig struct {
	Source   string
	Path     string
	Inline   string
	RedisKey string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	DialTimeout   time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	requestTimeout, err := time.ParseDuration(getEnv("REQUEST_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid request timeout: %w", err)
	}

	shutdownTimeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	redisDialTimeout, err := time.ParseDuration(getEnv("REDIS_DIAL_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid redis dial timeout: %w", err)
	}

	jwtTTL, err := time.ParseDuration(getEnv("JWT_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Customer Segmentation API"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			AllowedOrigins:  splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:8080")),
			RequestTimeout:  requestTimeout,
			ShutdownTimeout: shutdownTimeout,
		},
		Bundle: BundleConfig{
			Source:   strings.ToLower(getEnv("BUNDLE_SOURCE", BundleSourceFile)),
			Path:     getEnv("BUNDLE_PATH", "model/segment_bundle.json"),
			Inline:   getEnv("MODEL_BUNDLE_BASE64", ""),
			RedisKey: getEnv("BUNDLE_REDIS_KEY", "segmentation:bundle"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "customer_segmentation"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
			TTL:       jwtTTL,
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
			DialTimeout:   redisDialTimeout,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings the selected bundle source depends on.
func (c *Config) Validate() error {
	switch c.Bundle.Source {
	case BundleSourceFile:
		if c.Bundle.Path == "" {
			return errors.New("missing bundle path")
		}
	case BundleSourceInline:
		if c.Bundle.Inline == "" {
			return errors.New("missing inline model bundle")
		}
	case BundleSourcePostgres:
		if c.Database.Password == "" {
			return errors.New("missing database password")
		}
	case BundleSourceRedis:
		if c.Bundle.RedisKey == "" {
			return errors.New("missing bundle redis key")
		}
	default:
		return fmt.Errorf("unknown bundle source %q", c.Bundle.Source)
	}

	if c.Server.Port == "" {
		return errors.New("missing server port")
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
