package interview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mock-interview/internal/audio"
	"mock-interview/internal/backend"
)

// Backend — часть API бэкенда, нужная контроллеру. *backend.Client подходит.
type Backend interface {
	InitialQuestion(ctx context.Context, candidateID string) (string, error)
	NextQuestion(ctx context.Context) (string, error)
	UploadResponse(ctx context.Context, question string, audio backend.Audio) (*backend.UploadAck, error)
}

// Speaker озвучивает текст вопроса
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Controller ведет сессию по машине состояний. Сам состояния не хранит:
// каждая операция получает сессию, которой владеет вызывающий.
type Controller struct {
	backend  Backend
	speaker  Speaker
	observer Observer
	log      zerolog.Logger
	now      func() time.Time
}

type ControllerOption func(*Controller)

func WithSpeaker(s Speaker) ControllerOption {
	return func(c *Controller) { c.speaker = s }
}

func WithObserver(o Observer) ControllerOption {
	return func(c *Controller) { c.observer = o }
}

func WithLogger(log zerolog.Logger) ControllerOption {
	return func(c *Controller) { c.log = log.With().Str("component", "interview").Logger() }
}

// NewController создает контроллер поверх бэкенда
func NewController(b Backend, opts ...ControllerOption) *Controller {
	c := &Controller{
		backend:  b,
		observer: NopObserver{},
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin переводит сессию из NotStarted в AwaitingQuestion и запрашивает первый вопрос
func (c *Controller) Begin(ctx context.Context, s *Session) error {
	if err := checkState(s, NotStarted); err != nil {
		return err
	}
	if !s.begun {
		s.begun = true
		c.observer.SessionStarted(s)
		c.log.Info().Str("session", s.ID).Str("candidate", s.CandidateID).Str("flow", s.Flow).Msg("interview started")
	}
	c.transition(s, AwaitingQuestion)
	return c.RequestFirstQuestion(ctx, s)
}

// FetchQuestion выполняет действие входа в AwaitingQuestion; используется для повтора
func (c *Controller) FetchQuestion(ctx context.Context, s *Session) error {
	if s.QuestionIndex == 0 {
		return c.RequestFirstQuestion(ctx, s)
	}
	return c.RequestNextQuestion(ctx, s)
}

// RequestFirstQuestion запрашивает первый вопрос по идентификатору кандидата.
// При ошибке сессия возвращается в NotStarted без новых слотов.
func (c *Controller) RequestFirstQuestion(ctx context.Context, s *Session) error {
	if err := checkState(s, NotStarted, AwaitingQuestion); err != nil {
		return err
	}
	if s.QuestionIndex != 0 {
		return fmt.Errorf("first question already received: %w", ErrInvalidTransition)
	}
	if !s.begun {
		s.begun = true
		c.observer.SessionStarted(s)
	}
	c.transition(s, AwaitingQuestion)

	question, err := c.backend.InitialQuestion(ctx, s.CandidateID)
	if err == nil {
		err = requireQuestion("initial question", question)
	}
	if err != nil {
		c.fail(s, "request first question", err)
		c.transition(s, NotStarted)
		return fmt.Errorf("ошибка получения первого вопроса: %w", err)
	}

	c.accept(ctx, s, question)
	return nil
}

// RequestNextQuestion запрашивает следующий вопрос; бэкенд ведет свою сессию.
// При ошибке сессия остается в AwaitingQuestion.
func (c *Controller) RequestNextQuestion(ctx context.Context, s *Session) error {
	if err := checkState(s, AwaitingQuestion); err != nil {
		return err
	}
	if s.QuestionIndex == 0 {
		return fmt.Errorf("next question before first: %w", ErrInvalidTransition)
	}
	if s.QuestionIndex >= s.MaxQuestions {
		return ErrQuestionLimit
	}

	question, err := c.backend.NextQuestion(ctx)
	if err == nil {
		err = requireQuestion("next question", question)
	}
	if err != nil {
		c.fail(s, "request next question", err)
		return fmt.Errorf("ошибка получения следующего вопроса: %w", err)
	}

	c.accept(ctx, s, question)
	return nil
}

// StartRecording переводит PresentingQuestion в Recording
func (c *Controller) StartRecording(s *Session) error {
	if err := checkState(s, PresentingQuestion); err != nil {
		return err
	}
	c.transition(s, Recording)
	return nil
}

// Record проводит шаг записи целиком: ждет один результат захвата и отправляет его.
// Пустая запись трактуется как пропуск.
func (c *Controller) Record(ctx context.Context, s *Session, capturer audio.Capturer) error {
	if s.State == PresentingQuestion {
		if err := c.StartRecording(s); err != nil {
			return err
		}
	}
	if err := checkState(s, Recording); err != nil {
		return err
	}

	rec, err := capturer.Capture(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("session", s.ID).Msg("audio capture failed")
		s.LastError = "Recording failed. Please try again."
		c.transition(s, PresentingQuestion)
		return fmt.Errorf("ошибка записи ответа: %w", err)
	}
	return c.SubmitRecording(ctx, s, rec)
}

// SubmitResponse отправляет байты текущего ответа без метаданных.
// Пустые байты означают пропуск.
func (c *Controller) SubmitResponse(ctx context.Context, s *Session, data []byte) error {
	return c.SubmitRecording(ctx, s, audio.Recording{Data: data})
}

// SubmitRecording отправляет запись текущего ответа вместе с именем файла и типом.
// Пустая запись означает пропуск. Неудачная отправка оставляет слот Pending
// и возвращает сессию к показу вопроса.
func (c *Controller) SubmitRecording(ctx context.Context, s *Session, rec audio.Recording) error {
	if err := checkState(s, PresentingQuestion, Recording); err != nil {
		return err
	}
	if len(rec.Data) == 0 {
		return c.skip(ctx, s)
	}

	rec = audio.Prepare(rec)
	upload := backend.Audio{Data: rec.Data, Filename: rec.Filename, ContentType: rec.ContentType}

	c.transition(s, Submitting)
	if _, err := c.backend.UploadResponse(ctx, s.QuestionText, upload); err != nil {
		c.fail(s, "upload response", err)
		c.observer.UploadFailed(s, err)
		c.transition(s, PresentingQuestion)
		return fmt.Errorf("ошибка отправки ответа: %w", err)
	}

	return c.resolve(ctx, s, Recorded)
}

// Skip помечает текущий вопрос пропущенным
func (c *Controller) Skip(ctx context.Context, s *Session) error {
	if err := checkState(s, PresentingQuestion, Recording); err != nil {
		return err
	}
	return c.skip(ctx, s)
}

func (c *Controller) skip(ctx context.Context, s *Session) error {
	if !s.AllowSkip {
		s.LastError = "Skipping is not available in this interview. Please record an answer."
		c.transition(s, PresentingQuestion)
		return ErrSkipDisabled
	}
	c.transition(s, Submitting)
	return c.resolve(ctx, s, Skipped)
}

// EndEarly завершает сессию из любого состояния; на Completed ничего не делает
func (c *Controller) EndEarly(s *Session) {
	if s.State == Completed {
		return
	}
	c.log.Info().Str("session", s.ID).Int("question", s.QuestionIndex).Msg("interview ended early")
	c.complete(s, true)
}

// resolve фиксирует судьбу текущего слота и продвигает сессию
func (c *Controller) resolve(ctx context.Context, s *Session, status Status) error {
	cur := s.Current()
	if cur == nil || cur.Status != Pending {
		return fmt.Errorf("no pending response: %w", ErrInvalidTransition)
	}
	cur.Status = status
	s.LastError = ""
	c.observer.ResponseResolved(s, *cur)

	if s.QuestionIndex >= s.MaxQuestions {
		c.complete(s, false)
		return nil
	}
	c.transition(s, AwaitingQuestion)
	return c.RequestNextQuestion(ctx, s)
}

func (c *Controller) accept(ctx context.Context, s *Session, question string) {
	s.QuestionIndex++
	s.QuestionText = question
	s.Responses = append(s.Responses, Response{
		QuestionIndex: s.QuestionIndex,
		QuestionText:  question,
		Status:        Pending,
	})
	s.LastError = ""
	c.transition(s, PresentingQuestion)
	c.observer.QuestionAsked(s)

	if s.SpeakQuestions {
		s.speech = question
		if c.speaker != nil {
			if err := c.speaker.Speak(ctx, question); err != nil {
				c.log.Warn().Err(err).Str("session", s.ID).Msg("speech failed")
			}
		}
	}
}

func (c *Controller) complete(s *Session, early bool) {
	s.EndedEarly = early
	s.CompletedAt = c.now()
	s.LastError = ""
	s.speech = ""
	c.transition(s, Completed)

	sum := Summarize(s)
	c.log.Info().
		Str("session", s.ID).
		Int("answered", sum.Answered).
		Int("skipped", sum.Skipped).
		Int("total", sum.Total).
		Bool("ended_early", early).
		Msg("interview completed")
	c.observer.SessionCompleted(s)
}

func (c *Controller) transition(s *Session, to State) {
	if s.State == to {
		return
	}
	c.log.Debug().Str("session", s.ID).Stringer("from", s.State).Stringer("to", to).Msg("transition")
	s.State = to
}

func (c *Controller) fail(s *Session, op string, err error) {
	s.LastError = backend.UserMessage(err)
	c.log.Error().
		Err(err).
		Str("session", s.ID).
		Str("op", op).
		Stringer("kind", backend.KindOf(err)).
		Bool("retryable", backend.IsRetryable(err)).
		Msg("backend call failed")
}

func checkState(s *Session, allowed ...State) error {
	if s.State == Completed {
		return ErrCompleted
	}
	for _, st := range allowed {
		if s.State == st {
			return nil
		}
	}
	return fmt.Errorf("%s: %w", s.State, ErrInvalidTransition)
}

func requireQuestion(op, question string) error {
	if strings.TrimSpace(question) == "" {
		return &backend.Error{Op: op, Kind: backend.ProtocolFailure, Message: "empty question"}
	}
	return nil
}
