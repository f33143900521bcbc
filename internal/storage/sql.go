package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"mock-interview/internal/interview"
)

// фиксированная ширина дробной части, чтобы ORDER BY по тексту совпадал с порядком времени
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqlRepository реализует журнал поверх database/sql; диалекты отличаются только плейсхолдерами
type sqlRepository struct {
	db       *sql.DB
	numbered bool // $1, $2 вместо ?
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS attempts (
		id TEXT PRIMARY KEY,
		candidate_id TEXT NOT NULL,
		flow TEXT NOT NULL,
		max_questions INTEGER NOT NULL,
		ended_early INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		completed_at TEXT NOT NULL,
		answered INTEGER NOT NULL,
		skipped INTEGER NOT NULL,
		pending INTEGER NOT NULL,
		total INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS attempt_responses (
		attempt_id TEXT NOT NULL,
		question_index INTEGER NOT NULL,
		question_text TEXT NOT NULL,
		status TEXT NOT NULL,
		PRIMARY KEY (attempt_id, question_index)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_candidate ON attempts(candidate_id);`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_completed_at ON attempts(completed_at);`,
}

func (r *sqlRepository) migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ошибка миграции: %w", err)
		}
	}
	return nil
}

// rebind переписывает ? в $n для postgres
func (r *sqlRepository) rebind(query string) string {
	if !r.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// Save записывает попытку целиком; запись с тем же id заменяется
func (r *sqlRepository) Save(ctx context.Context, rec AttemptRecord) (err error) {
	if rec.ID == "" {
		return errors.New("attempt id is empty")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, r.rebind(`DELETE FROM attempt_responses WHERE attempt_id = ?`), rec.ID); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, r.rebind(`DELETE FROM attempts WHERE id = ?`), rec.ID); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, r.rebind(
		`INSERT INTO attempts (id, candidate_id, flow, max_questions, ended_early, started_at, completed_at, answered, skipped, pending, total)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		rec.ID,
		rec.CandidateID,
		rec.Flow,
		rec.MaxQuestions,
		boolToInt(rec.EndedEarly),
		rec.StartedAt.UTC().Format(timeLayout),
		rec.CompletedAt.UTC().Format(timeLayout),
		rec.Summary.Answered,
		rec.Summary.Skipped,
		rec.Summary.Pending,
		rec.Summary.Total,
	)
	if err != nil {
		return err
	}

	for _, resp := range rec.Responses {
		_, err = tx.ExecContext(ctx, r.rebind(
			`INSERT INTO attempt_responses (attempt_id, question_index, question_text, status) VALUES (?, ?, ?, ?)`),
			rec.ID, resp.QuestionIndex, resp.QuestionText, resp.Status.String())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *sqlRepository) Load(ctx context.Context, id string) (*AttemptRecord, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(selectAttempts+` WHERE id = ?`), id)
	rec, err := scanAttempt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadResponses(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *sqlRepository) List(ctx context.Context, candidateID string) ([]AttemptRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		r.rebind(selectAttempts+` WHERE (? = '' OR candidate_id = ?) ORDER BY completed_at DESC`),
		candidateID, candidateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []AttemptRecord{}
	for rows.Next() {
		rec, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		if err := r.loadResponses(ctx, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (r *sqlRepository) Close() error {
	return r.db.Close()
}

const selectAttempts = `SELECT id, candidate_id, flow, max_questions, ended_early, started_at, completed_at,
	answered, skipped, pending, total FROM attempts`

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(s scanner) (*AttemptRecord, error) {
	var (
		rec                  AttemptRecord
		endedEarly           int
		startedAt, completed string
	)
	err := s.Scan(&rec.ID, &rec.CandidateID, &rec.Flow, &rec.MaxQuestions, &endedEarly, &startedAt, &completed,
		&rec.Summary.Answered, &rec.Summary.Skipped, &rec.Summary.Pending, &rec.Summary.Total)
	if err != nil {
		return nil, err
	}
	rec.EndedEarly = endedEarly != 0
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return nil, fmt.Errorf("attempt %s: started_at: %w", rec.ID, err)
	}
	if rec.CompletedAt, err = time.Parse(time.RFC3339Nano, completed); err != nil {
		return nil, fmt.Errorf("attempt %s: completed_at: %w", rec.ID, err)
	}
	return &rec, nil
}

func (r *sqlRepository) loadResponses(ctx context.Context, rec *AttemptRecord) error {
	rows, err := r.db.QueryContext(ctx, r.rebind(
		`SELECT question_index, question_text, status FROM attempt_responses WHERE attempt_id = ? ORDER BY question_index`),
		rec.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	rec.Responses = []interview.Response{}
	for rows.Next() {
		var (
			resp   interview.Response
			status string
		)
		if err := rows.Scan(&resp.QuestionIndex, &resp.QuestionText, &status); err != nil {
			return err
		}
		resp.Status = interview.ParseStatus(status)
		rec.Responses = append(rec.Responses, resp)
	}
	return rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
