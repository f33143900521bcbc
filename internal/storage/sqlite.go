package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver.
)

// SQLiteRepository хранит журнал в файле SQLite
type SQLiteRepository struct {
	sqlRepository
}

// NewSQLiteRepository открывает или создает базу и применяет миграции
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite допускает одного писателя
	db.SetMaxOpenConns(1)

	repo := &SQLiteRepository{sqlRepository{db: db}}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}
