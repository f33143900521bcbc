package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig содержит настройки процесса из переменных окружения
type AppConfig struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
}

func LoadAppConfig() *AppConfig {
	return &AppConfig{
		ConfigPath: getEnv("INTERVIEW_CONFIG", "config/interview.yaml"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFormat:  getEnv("LOG_FORMAT", "console"),
	}
}

// ApplyEnv переопределяет значения YAML переменными окружения
func ApplyEnv(cfg *Config) {
	cfg.Backend.BaseURL = strings.TrimRight(getEnv("BACKEND_URL", cfg.Backend.BaseURL), "/")
	cfg.Backend.Timeout = getEnvAsDuration("BACKEND_TIMEOUT", cfg.Backend.Timeout)

	cfg.Storage.Driver = getEnv("STORAGE_DRIVER", cfg.Storage.Driver)
	cfg.Storage.Path = getEnv("STORAGE_PATH", cfg.Storage.Path)
	cfg.Storage.DSN = getEnv("STORAGE_DSN", cfg.Storage.DSN)

	cfg.Server.Addr = getEnv("SERVER_ADDR", cfg.Server.Addr)
	cfg.Server.SessionTTL = getEnvAsDuration("SERVER_SESSION_TTL", cfg.Server.SessionTTL)
	cfg.Server.RateLimit = getEnvAsInt("SERVER_RATE_LIMIT", cfg.Server.RateLimit)
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

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
