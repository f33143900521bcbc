package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"mock-interview/internal/interview"
)

// Journal записывает завершенные попытки в репозиторий
type Journal struct {
	interview.NopObserver

	repo    Repository
	log     zerolog.Logger
	timeout time.Duration
}

func NewJournal(repo Repository, log zerolog.Logger) *Journal {
	return &Journal{repo: repo, log: log, timeout: 5 * time.Second}
}

func (j *Journal) SessionCompleted(s *interview.Session) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	rec := FromSession(s)
	if err := j.repo.Save(ctx, rec); err != nil {
		j.log.Error().Err(err).Str("session", s.ID).Msg("failed to save attempt")
		return
	}
	j.log.Debug().Str("session", s.ID).Int("answered", rec.Summary.Answered).Msg("attempt saved")
}
