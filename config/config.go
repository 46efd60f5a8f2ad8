package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Environment string
	LogLevel    string
	Name        string
	Version     string
	HTTP        HTTPConfig
	Postgres    PostgresConfig
	JWT         JWTConfig
	S3          S3Config
	Cache       CacheConfig
	RateLimit   RateLimitConfig
	Migrations  MigrationsConfig
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxHeaderMB     int
	MaxUploadMB     int
}

type PostgresConfig struct {
	Host               string
	Port               string
	Username           string
	Password           string
	DBName             string
	SSLMode            string
	MaxConnections     int
	MaxIdleConnections int
	MaxLifetime        time.Duration
}

type JWTConfig struct {
	SigningKey      string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

type S3Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	PublicURL       string
}

type CacheConfig struct {
	TTL             time.Duration
	CleanupInterval time.Duration
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	TTL               time.Duration
}

type MigrationsConfig struct {
	Dir string
	// AutoApply runs pending migrations when the server starts.
	AutoApply bool
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func NewConfig() (*Config, error) {
	httpReadTimeout, err := getEnvAsDuration("HTTP_READ_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	httpWriteTimeout, err := getEnvAsDuration("HTTP_WRITE_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	httpShutdownTimeout, err := getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	postgresMaxLifetime, err := getEnvAsDuration("POSTGRES_MAX_LIFETIME", "5m")
	if err != nil {
		return nil, err
	}

	jwtAccessTokenTTL, err := getEnvAsDuration("JWT_ACCESS_TOKEN_TTL", "15m")
	if err != nil {
		return nil, err
	}

	jwtRefreshTokenTTL, err := getEnvAsDuration("JWT_REFRESH_TOKEN_TTL", "720h")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := getEnvAsDuration("CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}

	cacheCleanup, err := getEnvAsDuration("CACHE_CLEANUP_INTERVAL", "10m")
	if err != nil {
		return nil, err
	}

	rateLimitTTL, err := getEnvAsDuration("RATE_LIMIT_TTL", "10m")
	if err != nil {
		return nil, err
	}

	rps, err := strconv.ParseFloat(getEnv("RATE_LIMIT_RPS", "5"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_RPS: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Name:        getEnv("APP_NAME", "medcare"),
		Version:     getEnv("APP_VERSION", "1.0.0"),
		HTTP: HTTPConfig{
			Port:            getEnv("HTTP_PORT", "8080"),
			ReadTimeout:     httpReadTimeout,
			WriteTimeout:    httpWriteTimeout,
			ShutdownTimeout: httpShutdownTimeout,
			MaxHeaderMB:     getEnvAsInt("HTTP_MAX_HEADER_MB", 1),
			MaxUploadMB:     getEnvAsInt("HTTP_MAX_UPLOAD_MB", 5),
		},
		Postgres: PostgresConfig{
			Host:               getEnv("POSTGRES_HOST", "localhost"),
			Port:               getEnv("POSTGRES_PORT", "5432"),
			Username:           getEnv("POSTGRES_USER", "postgres"),
			Password:           getEnv("POSTGRES_PASSWORD", "postgres"),
			DBName:             getEnv("POSTGRES_DB", "medcare"),
			SSLMode:            getEnv("POSTGRES_SSL_MODE", "disable"),
			MaxConnections:     getEnvAsInt("POSTGRES_MAX_CONNECTIONS", 10),
			MaxIdleConnections: getEnvAsInt("POSTGRES_MAX_IDLE_CONNECTIONS", 2),
			MaxLifetime:        postgresMaxLifetime,
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "change_me"),
			AccessTokenTTL:  jwtAccessTokenTTL,
			RefreshTokenTTL: jwtRefreshTokenTTL,
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Bucket:          getEnv("S3_BUCKET", "medcare"),
			UseSSL:          getEnv("S3_USE_SSL", "true") == "true",
			PublicURL:       getEnv("S3_PUBLIC_URL", ""),
		},
		Cache: CacheConfig{
			TTL:             cacheTTL,
			CleanupInterval: cacheCleanup,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: rps,
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
			TTL:               rateLimitTTL,
		},
		Migrations: MigrationsConfig{
			Dir:       getEnv("MIGRATIONS_DIR", "./migrations"),
			AutoApply: getEnv("MIGRATIONS_AUTO_APPLY", "true") == "true",
		},
	}

	if cfg.IsProduction() && cfg.JWT.SigningKey == "change_me" {
		return nil, fmt.Errorf("JWT_SIGNING_KEY must be set in production")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key, defaultValue string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
