package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	DefaultBackendURL     = "http://127.0.0.1:8081/interview"
	DefaultBackendTimeout = 30 * time.Second

	// верхняя граница таймаута запросов к бэкенду
	maxBackendTimeout = 2 * time.Minute
)

// BackendConfig содержит параметры подключения к Backend API
type BackendConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ValidateConfig проверяет корректность конфигурации
func (c *BackendConfig) ValidateConfig() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("backend.base_url некорректен: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend.base_url должен начинаться с http:// или https://")
	}
	if u.Host == "" {
		return fmt.Errorf("backend.base_url должен содержать хост")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("backend.timeout должен быть положительным")
	}
	if c.Timeout > maxBackendTimeout {
		return fmt.Errorf("backend.timeout не может превышать %s", maxBackendTimeout)
	}

	return nil
}

// GetInfo возвращает информацию о подключении для логов
func (c *BackendConfig) GetInfo() map[string]interface{} {
	return map[string]interface{}{
		"base_url": c.BaseURL,
		"timeout":  c.Timeout.String(),
	}
}
