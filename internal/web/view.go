package web

import (
	"mock-interview/internal/config"
	"mock-interview/internal/interview"
	"mock-interview/internal/prompts"
)

// sessionView описывает то, что страница рисует для текущего состояния
type sessionView struct {
	ID            string               `json:"id"`
	State         string               `json:"state"`
	Flow          string               `json:"flow"`
	QuestionIndex int                  `json:"question_index"`
	MaxQuestions  int                  `json:"max_questions"`
	Question      string               `json:"question,omitempty"`
	Progress      float64              `json:"progress"`
	ProgressText  string               `json:"progress_text"`
	AllowSkip     bool                 `json:"allow_skip"`
	Speak         string               `json:"speak,omitempty"`
	LastError     string               `json:"last_error,omitempty"`
	EndedEarly    bool                 `json:"ended_early"`
	Summary       interview.Summary    `json:"summary"`
	Responses     []interview.Response `json:"responses"`
	Screen        prompts.Screen       `json:"screen"`
}

func newSessionView(s *interview.Session, cfg *config.Config) *sessionView {
	flow, err := cfg.GetFlow(s.Flow)
	if err != nil {
		flow = config.Flow{Name: s.Flow, MaxQuestions: s.MaxQuestions, AllowSkip: s.AllowSkip, SpeakQuestions: s.SpeakQuestions}
	}
	return &sessionView{
		ID:            s.ID,
		State:         s.State.String(),
		Flow:          s.Flow,
		QuestionIndex: s.QuestionIndex,
		MaxQuestions:  s.MaxQuestions,
		Question:      s.QuestionText,
		Progress:      s.Progress(),
		ProgressText:  prompts.Progress(s),
		AllowSkip:     s.AllowSkip,
		Speak:         s.TakeSpeech(),
		LastError:     s.LastError,
		EndedEarly:    s.EndedEarly,
		Summary:       s.Summary(),
		Responses:     s.Responses,
		Screen:        prompts.ForSession(s, flow),
	}
}
