package interview

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"mock-interview/internal/backend"
	"mock-interview/internal/config"
)

// State — состояние сессии интервью
type State int

const (
	NotStarted State = iota
	AwaitingQuestion
	PresentingQuestion
	Recording
	Submitting
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case AwaitingQuestion:
		return "awaiting_question"
	case PresentingQuestion:
		return "presenting_question"
	case Recording:
		return "recording"
	case Submitting:
		return "submitting"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Status — судьба ответа на заданный вопрос
type Status int

const (
	Pending Status = iota
	Recorded
	Skipped
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "PENDING"
	case Recorded:
		return "RECORDED"
	case Skipped:
		return "SKIPPED"
	default:
		return "UNKNOWN"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	*s = ParseStatus(string(b))
	return nil
}

// ParseStatus разбирает строковое представление Status
func ParseStatus(v string) Status {
	switch strings.ToUpper(v) {
	case "RECORDED":
		return Recorded
	case "SKIPPED":
		return Skipped
	default:
		return Pending
	}
}

// Response — слот ответа; создается один раз при получении вопроса
type Response struct {
	QuestionIndex int    `json:"question_index"`
	QuestionText  string `json:"question_text"`
	Status        Status `json:"status"`
}

// Session — одна попытка прохождения интервью.
// Меняется только операциями Controller; блокировок не содержит.
type Session struct {
	ID             string     `json:"id"`
	CandidateID    string     `json:"candidate_id"`
	Flow           string     `json:"flow"`
	MaxQuestions   int        `json:"max_questions"`
	AllowSkip      bool       `json:"allow_skip"`
	SpeakQuestions bool       `json:"speak_questions"`
	State          State      `json:"state"`
	QuestionIndex  int        `json:"question_index"`
	QuestionText   string     `json:"question_text"`
	Responses      []Response `json:"responses"`
	LastError      string     `json:"last_error,omitempty"`
	EndedEarly     bool       `json:"ended_early"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    time.Time  `json:"completed_at,omitempty"`

	// текст, который презентер должен озвучить; забирается через TakeSpeech
	speech string
	begun  bool
}

// NewSession создает сессию в состоянии NotStarted
func NewSession(candidateID string, flow config.Flow) (*Session, error) {
	candidateID = strings.TrimSpace(candidateID)
	if candidateID == "" {
		return nil, &backend.Error{
			Op:      "start session",
			Kind:    backend.InputFailure,
			Message: "User session not found. Please log in again.",
			Err:     ErrNoIdentity,
		}
	}
	if flow.MaxQuestions <= 0 {
		panic("interview: flow must have a positive MaxQuestions")
	}

	return &Session{
		ID:             uuid.New().String(),
		CandidateID:    candidateID,
		Flow:           flow.Name,
		MaxQuestions:   flow.MaxQuestions,
		AllowSkip:      flow.AllowSkip,
		SpeakQuestions: flow.SpeakQuestions,
		State:          NotStarted,
		Responses:      []Response{},
		StartedAt:      time.Now(),
	}, nil
}

// Current возвращает слот текущего вопроса или nil до первого вопроса
func (s *Session) Current() *Response {
	if len(s.Responses) == 0 {
		return nil
	}
	return &s.Responses[len(s.Responses)-1]
}

// Progress — доля заданных вопросов от максимума
func (s *Session) Progress() float64 {
	return float64(s.QuestionIndex) / float64(s.MaxQuestions)
}

func (s *Session) Terminal() bool { return s.State == Completed }

// TakeSpeech возвращает текст для озвучивания один раз
func (s *Session) TakeSpeech() string {
	text := s.speech
	s.speech = ""
	return text
}

// Summary — итог попытки
type Summary struct {
	Answered int `json:"answered"`
	Skipped  int `json:"skipped"`
	Pending  int `json:"pending"`
	Total    int `json:"total"`
}

// Summarize считает итог по слотам ответов, не меняя сессию
func Summarize(s *Session) Summary {
	sum := Summary{Total: s.QuestionIndex}
	for _, r := range s.Responses {
		switch r.Status {
		case Recorded:
			sum.Answered++
		case Skipped:
			sum.Skipped++
		default:
			sum.Pending++
		}
	}
	return sum
}

func (s *Session) Summary() Summary { return Summarize(s) }
