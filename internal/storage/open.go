package storage

import (
	"fmt"
	"path/filepath"

	"mock-interview/internal/config"
)

// Open выбирает реализацию журнала по конфигурации
func Open(cfg config.StorageConfig) (Repository, error) {
	switch cfg.Driver {
	case config.StorageJSON, "":
		return NewFileRepository(cfg.Path)
	case config.StorageSQLite:
		path := cfg.Path
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "attempts.db")
		}
		return NewSQLiteRepository(path)
	case config.StoragePostgres:
		return NewPostgresRepository(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
