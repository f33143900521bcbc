package config

import (
	"fmt"
	"time"
)

// Config представляет конфигурацию клиента интервью
type Config struct {
	DefaultFlow string        `yaml:"default_flow"`
	Flows       []Flow        `yaml:"flows"`
	Backend     BackendConfig `yaml:"backend"`
	Storage     StorageConfig `yaml:"storage"`
	Server      ServerConfig  `yaml:"server"`
}

// Flow описывает один вариант прохождения интервью
type Flow struct {
	Name           string `yaml:"name"`
	Title          string `yaml:"title"`
	MaxQuestions   int    `yaml:"max_questions"`
	AllowSkip      bool   `yaml:"allow_skip"`
	SpeakQuestions bool   `yaml:"speak_questions"`
}

// StorageConfig задает журнал завершенных попыток
type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	// DSN строки подключения для postgres
	DSN string `yaml:"dsn"`
}

// ServerConfig содержит настройки веб-адаптера
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	RateLimit      int           `yaml:"rate_limit"`
	RateWindow     time.Duration `yaml:"rate_window"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

const (
	StorageJSON     = "json"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Default возвращает конфигурацию, используемую без YAML файла
func Default() *Config {
	cfg := &Config{
		DefaultFlow: "standard",
		Flows: []Flow{
			{Name: "standard", Title: "Personalized interview", MaxQuestions: 5, AllowSkip: true, SpeakQuestions: true},
			{Name: "short", Title: "Quick practice", MaxQuestions: 3, AllowSkip: false, SpeakQuestions: true},
		},
	}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = DefaultBackendURL
	}
	if cfg.Backend.Timeout == 0 {
		cfg.Backend.Timeout = DefaultBackendTimeout
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageJSON
	}
	if cfg.Storage.Path == "" {
		if cfg.Storage.Driver == StorageSQLite {
			cfg.Storage.Path = "results/attempts.db"
		} else {
			cfg.Storage.Path = "results"
		}
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.SessionTTL == 0 {
		cfg.Server.SessionTTL = 24 * time.Hour
	}
	if cfg.Server.RateLimit == 0 {
		cfg.Server.RateLimit = 60
	}
	if cfg.Server.RateWindow == 0 {
		cfg.Server.RateWindow = time.Minute
	}
	if len(cfg.Server.AllowedOrigins) == 0 {
		cfg.Server.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if cfg.DefaultFlow == "" && len(cfg.Flows) > 0 {
		cfg.DefaultFlow = cfg.Flows[0].Name
	}
}

// GetFlow возвращает вариант интервью по имени; пустое имя означает вариант по умолчанию
func (c *Config) GetFlow(name string) (Flow, error) {
	if name == "" {
		name = c.DefaultFlow
	}
	for _, f := range c.Flows {
		if f.Name == name {
			return f, nil
		}
	}
	return Flow{}, fmt.Errorf("unknown interview flow %q", name)
}

// FlowNames возвращает имена всех вариантов в порядке объявления
func (c *Config) FlowNames() []string {
	names := make([]string, 0, len(c.Flows))
	for _, f := range c.Flows {
		names = append(names, f.Name)
	}
	return names
}
