package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	Postgres     PostgresConfig
	JWT          JWTConfig
	Dispatcher   DispatcherConfig
	Notification NotificationConfig
	Seed         SeedConfig
}

type ServerConfig struct {
	Host           string
	CORSOrigins    []string
	RequestTimeout time.Duration
	// TrustedProxies lists the proxies whose forwarded headers gin honours.
	// Empty means the socket address is always the client.
	TrustedProxies []string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type PostgresConfig struct {
	URL           string
	MigrationsDir string
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type DispatcherConfig struct {
	Interval  time.Duration
	BatchSize int
}

type NotificationConfig struct {
	Limit int
}

// SeedConfig holds the admin account created on startup when both values are set.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Host:           getEnv("APP_HOST", ":5000"),
			CORSOrigins:    getEnvSlice("CORS_ORIGINS", []string{"http://localhost:5173"}),
			RequestTimeout: time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
			TrustedProxies: getEnvSlice("TRUSTED_PROXIES", nil),
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOGGER_LEVEL", "debug"),
			Encoding: getEnv("LOGGER_ENCODING", "console"),
		},
		Postgres: PostgresConfig{
			URL:           getEnv("DATABASE_URL", ""),
			MigrationsDir: getEnv("MIGRATIONS_DIR", "./migrations"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
			TTL:    time.Duration(getEnvInt("JWT_TTL_HOURS", 12)) * time.Hour,
		},
		Dispatcher: DispatcherConfig{
			Interval:  time.Duration(getEnvInt("DISPATCH_INTERVAL_SECONDS", 10)) * time.Second,
			BatchSize: getEnvInt("DISPATCH_BATCH_SIZE", 20),
		},
		Notification: NotificationConfig{
			Limit: getEnvInt("NOTIFICATION_LIMIT", 50),
		},
		Seed: SeedConfig{
			AdminEmail:    getEnv("SEED_ADMIN_EMAIL", ""),
			AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil && i > 0 {
			return i
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}
