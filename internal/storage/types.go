package storage

import (
	"context"
	"errors"
	"time"

	"mock-interview/internal/interview"
)

var ErrNotFound = errors.New("attempt not found")

// AttemptRecord — снимок завершенной попытки для журнала. Аудио не хранится.
type AttemptRecord struct {
	ID           string               `json:"id"`
	CandidateID  string               `json:"candidate_id"`
	Flow         string               `json:"flow"`
	MaxQuestions int                  `json:"max_questions"`
	EndedEarly   bool                 `json:"ended_early"`
	StartedAt    time.Time            `json:"started_at"`
	CompletedAt  time.Time            `json:"completed_at"`
	Summary      interview.Summary    `json:"summary"`
	Responses    []interview.Response `json:"responses"`
}

// FromSession строит запись журнала по сессии
func FromSession(s *interview.Session) AttemptRecord {
	completed := s.CompletedAt
	if completed.IsZero() {
		completed = time.Now()
	}
	return AttemptRecord{
		ID:           s.ID,
		CandidateID:  s.CandidateID,
		Flow:         s.Flow,
		MaxQuestions: s.MaxQuestions,
		EndedEarly:   s.EndedEarly,
		StartedAt:    s.StartedAt.UTC(),
		CompletedAt:  completed.UTC(),
		Summary:      interview.Summarize(s),
		Responses:    append([]interview.Response(nil), s.Responses...),
	}
}

// Repository хранит завершенные попытки
type Repository interface {
	Save(ctx context.Context, rec AttemptRecord) error
	Load(ctx context.Context, id string) (*AttemptRecord, error)
	// List возвращает попытки кандидата от новых к старым
	List(ctx context.Context, candidateID string) ([]AttemptRecord, error)
	Close() error
}
