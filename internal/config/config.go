package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Server   ServerConfig
	Import   ImportConfig
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Driver is "postgres" or "memory". The memory driver is for local
	// development and demos only; nothing survives a restart.
	Driver string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds the optional event-mirror connection settings.
// An empty Addr disables the mirror.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr               string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	CORSOrigins        []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// ImportConfig bounds the bulk-import surface.
type ImportConfig struct {
	MaxRows int
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("WORKBOARDS_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("WORKBOARDS_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("WORKBOARDS_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("WORKBOARDS_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("WORKBOARDS_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateLimit, err := getEnvFloat("WORKBOARDS_RATE_LIMIT_RPS", 100)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	rateBurst, err := getEnvInt("WORKBOARDS_RATE_LIMIT_BURST", 200)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	importMaxRows, err := getEnvInt("WORKBOARDS_IMPORT_MAX_ROWS", 1000)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		Store: StoreConfig{
			Driver: getEnv("WORKBOARDS_STORE_DRIVER", "postgres"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("WORKBOARDS_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("WORKBOARDS_DB_USER", "workboards"),
			Password: getEnv("WORKBOARDS_DB_PASSWORD", ""),
			DBName:   getEnv("WORKBOARDS_DB_NAME", "workboards_dev"),
			SSLMode:  getEnv("WORKBOARDS_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:     getEnv("WORKBOARDS_REDIS_ADDR", ""),
			Password: getEnv("WORKBOARDS_REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Server: ServerConfig{
			Addr:               getEnv("WORKBOARDS_SERVER_ADDR", ":8080"),
			ReadTimeout:        readTimeout,
			WriteTimeout:       writeTimeout,
			CORSOrigins:        getEnvList("WORKBOARDS_CORS_ORIGINS", []string{"*"}),
			RateLimitPerSecond: rateLimit,
			RateLimitBurst:     rateBurst,
		},
		Import: ImportConfig{
			MaxRows: importMaxRows,
		},
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	switch c.Store.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("WORKBOARDS_STORE_DRIVER must be postgres or memory, got %q", c.Store.Driver)
	}

	if c.Store.Driver == "memory" {
		log.Warn().Msg("WORKBOARDS_STORE_DRIVER=memory keeps no data across restarts; for local use only")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("WORKBOARDS_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("WORKBOARDS_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("WORKBOARDS_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("WORKBOARDS_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.Server.RateLimitPerSecond <= 0 {
		return fmt.Errorf("WORKBOARDS_RATE_LIMIT_RPS must be positive, got %g", c.Server.RateLimitPerSecond)
	}
	if c.Server.RateLimitBurst < 1 {
		return fmt.Errorf("WORKBOARDS_RATE_LIMIT_BURST must be >= 1, got %d", c.Server.RateLimitBurst)
	}
	if c.Import.MaxRows < 1 {
		return fmt.Errorf("WORKBOARDS_IMPORT_MAX_ROWS must be >= 1, got %d", c.Import.MaxRows)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as float: %w", key, v, err)
	}
	return f, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
