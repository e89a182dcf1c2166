package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	App       AppConfig
	Domain    DomainConfig
	Directory DirectoryConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Features  FeaturesConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port    string
	GinMode string
}

type AppConfig struct {
	Env string
}

// DomainConfig drives subdomain resolution for inbound hosts.
type DomainConfig struct {
	// RootDomain is the production apex; tenants are served at
	// "<subdomain>.<RootDomain>".
	RootDomain string
	// PreviewDomain is the preview-deployment suffix; preview hosts look
	// like "<subdomain>---<branch>.<PreviewDomain>".
	PreviewDomain string
}

type DirectoryConfig struct {
	// Driver selects the authoritative tenant store: "memory" or "postgres".
	Driver string
	// CacheTTL bounds how long a tenant record may be served from Redis.
	CacheTTL time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

type FeaturesConfig struct {
	// OverrideTTL bounds per-tenant feature overrides in Redis.
	OverrideTTL time.Duration
	// DeploymentOverrides are operator-set flag values applied across all
	// tenants, parsed from FEATURE_OVERRIDES as "flag=true,other=false".
	DeploymentOverrides map[string]bool
}

type LogConfig struct {
	Level  string
	Pretty bool
}

func Load() *Config {
	// Missing .env is fine; env vars and defaults still apply.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port:    getEnv("PORT", "8080"),
			GinMode: getEnv("GIN_MODE", "debug"),
		},
		App: AppConfig{
			Env: getEnv("APP_ENV", "development"),
		},
		Domain: DomainConfig{
			RootDomain:    getEnv("ROOT_DOMAIN", "worksense.app"),
			PreviewDomain: getEnv("PREVIEW_DOMAIN", "worksense-previews.app"),
		},
		Directory: DirectoryConfig{
			Driver:   getEnv("TENANT_STORE_DRIVER", "memory"),
			CacheTTL: time.Duration(getEnvAsInt("TENANT_CACHE_TTL_HOURS", 12)) * time.Hour,
		},
		Database: DatabaseConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnv("POSTGRES_PORT", "5432"),
			User:     getEnv("POSTGRES_USER", "worksense"),
			Password: getEnv("POSTGRES_PASSWORD", "worksense"),
			DBName:   getEnv("POSTGRES_DB", "worksense"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", "worksense-dev-secret-change-in-production"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Features: FeaturesConfig{
			OverrideTTL:         time.Duration(getEnvAsInt("FEATURE_OVERRIDE_TTL_MINUTES", 60)) * time.Minute,
			DeploymentOverrides: parseBoolMap(getEnv("FEATURE_OVERRIDES", "")),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnv("LOG_PRETTY", "true") == "true",
		},
	}
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func parseBoolMap(raw string) map[string]bool {
	out := make(map[string]bool)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		if parsed, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			out[strings.TrimSpace(key)] = parsed
		}
	}
	return out
}
