package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Storage    StorageConfig
	Database   DatabaseConfig
	Session    SessionConfig
	Auth       AuthConfig
	Badges     BadgeConfig
	Cloudinary CloudinaryConfig
	Logging    LoggingConfig
	RateLimit  RateLimitConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string
	Host            string
	Environment     string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	GracefulTimeout time.Duration
	AllowedOrigins  []string
}

// StorageConfig selects the document store backing the repositories
type StorageConfig struct {
	Provider      string // "memory", "redis", "postgres"
	RedisURL      string
	RedisPassword string
	RedisDB       int
	KeyPrefix     string
	Seed          bool
	ConnectRetry  time.Duration
}

// DatabaseConfig holds postgres settings for the postgres provider
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MigrationsPath  string
}

// SessionConfig holds the session-user cache settings
type SessionConfig struct {
	Provider string // "memory", "redis"
	RedisURL string
	TTL      time.Duration
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret         string
	JWTExpiry         time.Duration
	BCryptCost        int
	MinPasswordLength int
	SimulatedLatency  time.Duration
}

// BadgeConfig controls the periodic badge auto-check
type BadgeConfig struct {
	AutoCheckEnabled  bool
	AutoCheckInterval time.Duration
}

// CloudinaryConfig holds Cloudinary configuration
type CloudinaryConfig struct {
	CloudName     string
	APIKey        string
	APISecret     string
	AvatarFolder  string
	MaxFileSize   int64
	UploadTimeout time.Duration
	MaxRetries    int
}

// RateLimitConfig throttles the auth endpoints per client IP
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment, loading .env files outside production
func Load() (*Config, error) {
	env := getEnv("GO_ENV", "development")
	if env != "production" {
		envFile := fmt.Sprintf(".env.%s", env)
		if _, err := os.Stat(envFile); err == nil {
			_ = godotenv.Load(envFile)
		} else {
			_ = godotenv.Load() // fallback to .env
		}
	}

	cfg := &Config{
		Server:     loadServerConfig(env),
		Storage:    loadStorageConfig(),
		Database:   loadDatabaseConfig(),
		Session:    loadSessionConfig(),
		Auth:       loadAuthConfig(env),
		Badges:     loadBadgeConfig(),
		Cloudinary: loadCloudinaryConfig(),
		Logging:    loadLoggingConfig(env),
		RateLimit:  loadRateLimitConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig(env string) ServerConfig {
	return ServerConfig{
		Port:            getEnv("PORT", "9000"),
		Host:            getEnv("HOST", "0.0.0.0"),
		Environment:     env,
		ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 60*time.Second),
		GracefulTimeout: getDurationEnv("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
		AllowedOrigins:  getSliceEnv("CORS_ALLOWED_ORIGINS", "*"),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		Provider:      getEnv("STORAGE_PROVIDER", "memory"),
		RedisURL:      getEnv("STORAGE_REDIS_URL", ""),
		RedisPassword: getEnv("STORAGE_REDIS_PASSWORD", ""),
		RedisDB:       getIntEnv("STORAGE_REDIS_DB", 0),
		KeyPrefix:     getEnv("STORAGE_KEY_PREFIX", "linkedout:"),
		Seed:          getBoolEnv("STORAGE_SEED", true),
		ConnectRetry:  getDurationEnv("STORAGE_CONNECT_RETRY", 30*time.Second),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		URL:             getEnv("DATABASE_URL", ""),
		MaxOpenConns:    getIntEnv("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getIntEnv("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getDurationEnv("DB_CONN_MAX_LIFETIME", time.Hour),
		MigrationsPath:  getEnv("DB_MIGRATIONS_PATH", "migrations"),
	}
}

func loadSessionConfig() SessionConfig {
	return SessionConfig{
		Provider: getEnv("SESSION_PROVIDER", "memory"),
		RedisURL: getEnv("SESSION_REDIS_URL", ""),
		TTL:      getDurationEnv("SESSION_TTL", 24*time.Hour),
	}
}

func loadAuthConfig(env string) AuthConfig {
	latency := time.Second
	if env == "test" {
		latency = 0
	}
	return AuthConfig{
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTExpiry:         getDurationEnv("JWT_EXPIRY", 24*time.Hour),
		BCryptCost:        getIntEnv("BCRYPT_COST", 12),
		MinPasswordLength: getIntEnv("MIN_PASSWORD_LENGTH", 6),
		SimulatedLatency:  getDurationEnv("AUTH_SIMULATED_LATENCY", latency),
	}
}

func loadBadgeConfig() BadgeConfig {
	return BadgeConfig{
		AutoCheckEnabled:  getBoolEnv("BADGE_AUTO_CHECK", true),
		AutoCheckInterval: getDurationEnv("BADGE_AUTO_CHECK_INTERVAL", 5*time.Minute),
	}
}

func loadCloudinaryConfig() CloudinaryConfig {
	return CloudinaryConfig{
		CloudName:     getEnv("CLOUDINARY_CLOUD_NAME", ""),
		APIKey:        getEnv("CLOUDINARY_API_KEY", ""),
		APISecret:     getEnv("CLOUDINARY_API_SECRET", ""),
		AvatarFolder:  getEnv("CLOUDINARY_AVATAR_FOLDER", "linkedout/avatars"),
		MaxFileSize:   getInt64Env("MAX_FILE_SIZE", 5*1024*1024),
		UploadTimeout: getDurationEnv("CLOUDINARY_UPLOAD_TIMEOUT", 30*time.Second),
		MaxRetries:    getIntEnv("CLOUDINARY_MAX_RETRIES", 3),
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
		Limit:   getIntEnv("RATE_LIMIT_AUTH", 10),
		Window:  getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
	}
}

func loadLoggingConfig(env string) LoggingConfig {
	level := "debug"
	format := "console"
	if env == "production" {
		level = "info"
		format = "json"
	}
	return LoggingConfig{
		Level:  getEnv("LOG_LEVEL", level),
		Format: getEnv("LOG_FORMAT", format),
	}
}

// ===============================
// VALIDATION
// ===============================

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := c.Storage.Validate(c.Database); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}
	if err := c.Auth.Validate(c.Server.Environment); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}
	return nil
}

// Validate validates server configuration
func (s *ServerConfig) Validate() error {
	if s.Port == "" {
		return fmt.Errorf("port is required")
	}
	if _, err := strconv.Atoi(s.Port); err != nil {
		return fmt.Errorf("invalid port: %s", s.Port)
	}
	return nil
}

// Validate validates the storage provider selection
func (s *StorageConfig) Validate(db DatabaseConfig) error {
	switch strings.ToLower(s.Provider) {
	case "memory", "":
		return nil
	case "redis":
		return nil
	case "postgres":
		if db.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres provider")
		}
		return nil
	default:
		return fmt.Errorf("unsupported storage provider: %s", s.Provider)
	}
}

// Validate validates authentication configuration
func (a *AuthConfig) Validate(env string) error {
	if a.JWTSecret == "" {
		if env == "production" {
			return fmt.Errorf("JWT_SECRET is required in production")
		}
		a.JWTSecret = "linkedout-development-secret"
	}
	if a.BCryptCost < 4 || a.BCryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31")
	}
	if a.MinPasswordLength < 1 {
		return fmt.Errorf("minimum password length must be positive")
	}
	return nil
}

// IsProduction returns true if running in production
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// CloudinaryEnabled reports whether avatar uploads are configured
func (c *CloudinaryConfig) CloudinaryEnabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// ===============================
// ENV HELPERS
// ===============================

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getSliceEnv(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
