package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	return Parse(data)
}

// LoadOrDefault загружает YAML, а при отсутствии файла возвращает Default()
func LoadOrDefault(filename string) (*Config, error) {
	cfg, err := Load(filename)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Parse разбирает и валидирует YAML конфигурацию
func Parse(data []byte) (*Config, error) {
	var config Config
	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	if len(config.Flows) == 0 {
		config.Flows = Default().Flows
	}
	applyDefaults(&config)

	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	seen := make(map[string]bool, len(config.Flows))
	for i, flow := range config.Flows {
		if flow.Name == "" {
			return fmt.Errorf("flow %d должен иметь name", i+1)
		}
		if seen[flow.Name] {
			return fmt.Errorf("flow %q объявлен дважды", flow.Name)
		}
		seen[flow.Name] = true

		if flow.MaxQuestions <= 0 {
			return fmt.Errorf("flow %q: max_questions должно быть больше 0", flow.Name)
		}
	}

	if !seen[config.DefaultFlow] {
		return fmt.Errorf("default_flow %q не найден среди flows", config.DefaultFlow)
	}

	if err := config.Backend.ValidateConfig(); err != nil {
		return err
	}

	switch config.Storage.Driver {
	case StorageJSON, StorageSQLite:
	case StoragePostgres:
		if config.Storage.DSN == "" {
			return fmt.Errorf("storage.dsn обязателен для драйвера %q", StoragePostgres)
		}
	default:
		return fmt.Errorf("storage.driver должен быть %q, %q или %q, получен %q",
			StorageJSON, StorageSQLite, StoragePostgres, config.Storage.Driver)
	}

	if config.Server.RateLimit < 0 {
		return fmt.Errorf("server.rate_limit не может быть отрицательным")
	}

	return nil
}
