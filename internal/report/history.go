package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"mock-interview/internal/backend"
	"mock-interview/internal/storage"
)

const DateLayout = "Jan 02, 2006 03:04 PM"

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// HistoryEntry — строка списка прошлых интервью
type HistoryEntry struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Score     string    `json:"score"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// History сортирует записи бэкенда от новых к старым.
// Записи с нечитаемой датой уходят в конец и показывают дату как есть.
func History(records []backend.InterviewRecord) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		e := HistoryEntry{
			ID:      r.ID,
			Score:   NotAvailable,
			Summary: strings.TrimSpace(r.Summary),
		}
		if r.Score != nil {
			e.Score = strconv.FormatFloat(*r.Score, 'f', -1, 64) + "/10"
		}
		if e.Summary == "" {
			e.Summary = NotAvailable
		}
		if t, ok := parseCreatedAt(r.CreatedAt); ok {
			e.CreatedAt = t
			e.Date = t.Format(DateLayout)
		} else {
			e.Date = r.CreatedAt
			if e.Date == "" {
				e.Date = NotAvailable
			}
		}
		entries = append(entries, e)
	}
	sortEntries(entries)
	return entries
}

// LocalHistory строит тот же список по локальному журналу попыток
func LocalHistory(records []storage.AttemptRecord) []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		summary := fmt.Sprintf("Answered %d of %d", r.Summary.Answered, r.Summary.Total)
		if r.Summary.Skipped > 0 {
			summary += fmt.Sprintf(", skipped %d", r.Summary.Skipped)
		}
		if r.EndedEarly {
			summary += " (ended early)"
		}
		entries = append(entries, HistoryEntry{
			ID:        r.ID,
			Date:      r.CompletedAt.Local().Format(DateLayout),
			Score:     NotAvailable,
			Summary:   summary,
			CreatedAt: r.CompletedAt,
		})
	}
	sortEntries(entries)
	return entries
}

func sortEntries(entries []HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].CreatedAt, entries[j].CreatedAt
		if a.IsZero() != b.IsZero() {
			return !a.IsZero()
		}
		return a.After(b)
	})
}

func parseCreatedAt(v string) (time.Time, bool) {
	v = strings.TrimSpace(v)
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
