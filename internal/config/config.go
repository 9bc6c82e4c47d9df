package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/glucose-logger/internal/logger"
)

type Config struct {
	HTTP   HTTPConfig
	DB     DBConfig
	Redis  RedisConfig
	Cache  CacheConfig
	Logger LoggerConfig
}

type HTTPConfig struct {
	Addr string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// Configured reports whether a remote store is set up at all. An empty
// host means permanent local-only mode for the session.
func (c DBConfig) Configured() bool {
	return c.Host != ""
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig drives the offline shell cache. Bumping Version retires
// every previously cached asset on the next activation.
type CacheConfig struct {
	Version  string
	Upstream string
	Assets   []string
}

// Enabled reports whether the shell cache controller should run.
func (c CacheConfig) Enabled(redis RedisConfig) bool {
	return redis.Addr != "" && c.Upstream != ""
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func parseAssets(list string) []string {
	parts := strings.Split(list, ",")
	assets := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			assets = append(assets, p)
		}
	}
	return assets
}

func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		redisDB = 0
	}

	return &Config{
		HTTP: HTTPConfig{
			Addr: getEnvOrDefault("HTTP_ADDR", ":8080"),
		},
		DB: DBConfig{
			Host:     os.Getenv("DB_HOST"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "glucose_logger"),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			Version:  getEnvOrDefault("SHELL_CACHE_VERSION", "v1"),
			Upstream: os.Getenv("SHELL_UPSTREAM_URL"),
			Assets: parseAssets(getEnvOrDefault("SHELL_ASSETS",
				"/,/manifest.webmanifest,/icons/icon-192.png,/icons/icon-512.png")),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
	}, nil
}
