package interview

import "mock-interview/internal/metrics"

// Observer получает события сессии. Вызывается синхронно внутри операции контроллера.
type Observer interface {
	SessionStarted(s *Session)
	QuestionAsked(s *Session)
	ResponseResolved(s *Session, r Response)
	UploadFailed(s *Session, err error)
	SessionCompleted(s *Session)
}

// NopObserver игнорирует все события; удобно встраивать
type NopObserver struct{}

func (NopObserver) SessionStarted(*Session)             {}
func (NopObserver) QuestionAsked(*Session)              {}
func (NopObserver) ResponseResolved(*Session, Response) {}
func (NopObserver) UploadFailed(*Session, error)        {}
func (NopObserver) SessionCompleted(*Session)           {}

// Observers рассылает события по списку
type Observers []Observer

func (o Observers) SessionStarted(s *Session) {
	for _, ob := range o {
		ob.SessionStarted(s)
	}
}

func (o Observers) QuestionAsked(s *Session) {
	for _, ob := range o {
		ob.QuestionAsked(s)
	}
}

func (o Observers) ResponseResolved(s *Session, r Response) {
	for _, ob := range o {
		ob.ResponseResolved(s, r)
	}
}

func (o Observers) UploadFailed(s *Session, err error) {
	for _, ob := range o {
		ob.UploadFailed(s, err)
	}
}

func (o Observers) SessionCompleted(s *Session) {
	for _, ob := range o {
		ob.SessionCompleted(s)
	}
}

// MetricsObserver переводит события в счетчики
type MetricsObserver struct {
	Metrics *metrics.Metrics
}

func (m MetricsObserver) SessionStarted(*Session) { m.Metrics.IncrementSessionsStarted() }
func (m MetricsObserver) QuestionAsked(*Session)  { m.Metrics.IncrementQuestionsAsked() }

func (m MetricsObserver) ResponseResolved(_ *Session, r Response) {
	switch r.Status {
	case Recorded:
		m.Metrics.IncrementResponsesRecorded()
	case Skipped:
		m.Metrics.IncrementResponsesSkipped()
	}
}

func (m MetricsObserver) UploadFailed(*Session, error) { m.Metrics.IncrementUploadFailures() }

func (m MetricsObserver) SessionCompleted(s *Session) {
	m.Metrics.IncrementSessionsCompleted(s.EndedEarly)
}
