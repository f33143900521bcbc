package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	filePrefix = "interview_"
	fileExt    = ".json"
)

// FileRepository хранит каждую попытку в отдельном JSON файле
type FileRepository struct {
	dir string
}

func NewFileRepository(dir string) (*FileRepository, error) {
	if dir == "" {
		dir = "results"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}
	return &FileRepository{dir: dir}, nil
}

// Save сохраняет попытку; повторное сохранение перезаписывает файл
func (r *FileRepository) Save(ctx context.Context, rec AttemptRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return errors.New("attempt id is empty")
	}

	jsonData, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации попытки: %w", err)
	}

	path := r.path(rec.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, jsonData, 0o644); err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}
	return nil
}

func (r *FileRepository) Load(ctx context.Context, id string) (*AttemptRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := r.path(id)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var rec AttemptRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON %s: %w", path, err)
	}
	return &rec, nil
}

func (r *FileRepository) List(ctx context.Context, candidateID string) ([]AttemptRecord, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []AttemptRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", r.dir, err)
	}

	records := []AttemptRecord{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || filepath.Ext(name) != fileExt {
			continue
		}
		id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExt)
		rec, err := r.Load(ctx, id)
		if err != nil {
			return nil, err
		}
		if candidateID == "" || rec.CandidateID == candidateID {
			records = append(records, *rec)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CompletedAt.After(records[j].CompletedAt)
	})
	return records, nil
}

func (r *FileRepository) Close() error { return nil }

func (r *FileRepository) path(id string) string {
	return filepath.Join(r.dir, filePrefix+filepath.Base(id)+fileExt)
}
