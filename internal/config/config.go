package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/payroll-backend-go/internal/domain/attendance"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	CORS       CORSConfig
	Permission PermissionCacheConfig
	Retention  RetentionConfig
	Bootstrap  BootstrapConfig
	Export     ExportConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Version  string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// PermissionCacheConfig sizes the role permission cache.
type PermissionCacheConfig struct {
	CacheSize int
	CacheTTL  time.Duration
}

// RetentionConfig controls the job that prunes old attendance, bonus and
// penalty months.
type RetentionConfig struct {
	Enabled     bool
	CutoffMonth string
	Interval    time.Duration
}

// BootstrapConfig creates the first admin account. Empty email disables it.
type BootstrapConfig struct {
	AdminEmail    string
	AdminPassword string
}

// ExportConfig holds export rendering settings. An empty PDFFontPath keeps
// the built-in Latin font.
type ExportConfig struct {
	PDFFontPath string
}

func Load() (*Config, error) {
	// .env is optional; the environment wins either way
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "payroll"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Version:  getEnv("APP_VERSION", "v1.0.0"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// Permission cache configuration
	cacheSize, err := strconv.Atoi(getEnv("PERMISSION_CACHE_SIZE", "64"))
	if err != nil {
		return nil, fmt.Errorf("invalid PERMISSION_CACHE_SIZE: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("PERMISSION_CACHE_TTL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid PERMISSION_CACHE_TTL: %w", err)
	}
	config.Permission = PermissionCacheConfig{CacheSize: cacheSize, CacheTTL: cacheTTL}

	// Retention configuration
	retentionEnabled, err := strconv.ParseBool(getEnv("RETENTION_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETENTION_ENABLED: %w", err)
	}
	retentionInterval, err := time.ParseDuration(getEnv("RETENTION_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETENTION_INTERVAL: %w", err)
	}
	config.Retention = RetentionConfig{
		Enabled:     retentionEnabled,
		CutoffMonth: getEnv("RETENTION_CUTOFF_MONTH", "2025-06"),
		Interval:    retentionInterval,
	}

	config.Bootstrap = BootstrapConfig{
		AdminEmail:    getEnv("BOOTSTRAP_ADMIN_EMAIL", ""),
		AdminPassword: getEnv("BOOTSTRAP_ADMIN_PASSWORD", ""),
	}

	config.Export = ExportConfig{
		PDFFontPath: getEnv("PDF_FONT_PATH", ""),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if c.Database.MaxConns < 1 || c.Database.MinConns < 0 || c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	if c.Permission.CacheSize <= 0 {
		return fmt.Errorf("PERMISSION_CACHE_SIZE must be positive")
	}
	if _, err := attendance.ParseMonthKey(c.Retention.CutoffMonth); err != nil {
		return fmt.Errorf("invalid RETENTION_CUTOFF_MONTH: %w", err)
	}
	if c.Retention.Interval <= 0 {
		return fmt.Errorf("RETENTION_INTERVAL must be positive")
	}
	if c.Bootstrap.AdminEmail != "" && len(c.Bootstrap.AdminPassword) < 8 {
		return fmt.Errorf("BOOTSTRAP_ADMIN_PASSWORD must be at least 8 characters")
	}
	if c.Export.PDFFontPath != "" {
		if _, err := os.Stat(c.Export.PDFFontPath); err != nil {
			return fmt.Errorf("invalid PDF_FONT_PATH: %w", err)
		}
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
