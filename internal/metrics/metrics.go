package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Snapshot — значения счетчиков на момент чтения
type Snapshot struct {
	SessionsStarted    int64
	SessionsCompleted  int64
	SessionsEndedEarly int64
	QuestionsAsked     int64
	ResponsesRecorded  int64
	ResponsesSkipped   int64
	UploadFailures     int64
	APICallsTotal      int64
	APICallsSuccessful int64
	LastUpdateTime     time.Time
}

type Metrics struct {
	mu   sync.RWMutex
	snap Snapshot

	registry  *prometheus.Registry
	sessions  *prometheus.CounterVec
	questions prometheus.Counter
	responses *prometheus.CounterVec
	apiCalls  *prometheus.CounterVec
	apiTiming *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		snap:     Snapshot{LastUpdateTime: time.Now()},
		registry: prometheus.NewRegistry(),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mock_interview_sessions_total",
			Help: "Interview sessions by lifecycle event",
		}, []string{"event"}), // started, completed, ended_early
		questions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mock_interview_questions_asked_total",
			Help: "Questions accepted from the backend",
		}),
		responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mock_interview_responses_total",
			Help: "Resolved responses by outcome",
		}, []string{"outcome"}), // recorded, skipped, upload_failed
		apiCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mock_interview_backend_calls_total",
			Help: "Backend API calls",
		}, []string{"op", "status"}),
		apiTiming: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mock_interview_backend_call_duration_seconds",
			Help:    "Backend API call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"}),
	}
	m.registry.MustRegister(m.sessions, m.questions, m.responses, m.apiCalls, m.apiTiming)
	return m
}

// Handler отдает счетчики в формате Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) IncrementSessionsStarted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.SessionsStarted++
	m.snap.LastUpdateTime = time.Now()
	m.sessions.WithLabelValues("started").Inc()
}

func (m *Metrics) IncrementSessionsCompleted(endedEarly bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.SessionsCompleted++
	m.sessions.WithLabelValues("completed").Inc()
	if endedEarly {
		m.snap.SessionsEndedEarly++
		m.sessions.WithLabelValues("ended_early").Inc()
	}
	m.snap.LastUpdateTime = time.Now()
}

func (m *Metrics) IncrementQuestionsAsked() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.QuestionsAsked++
	m.snap.LastUpdateTime = time.Now()
	m.questions.Inc()
}

func (m *Metrics) IncrementResponsesRecorded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.ResponsesRecorded++
	m.snap.LastUpdateTime = time.Now()
	m.responses.WithLabelValues("recorded").Inc()
}

func (m *Metrics) IncrementResponsesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.ResponsesSkipped++
	m.snap.LastUpdateTime = time.Now()
	m.responses.WithLabelValues("skipped").Inc()
}

func (m *Metrics) IncrementUploadFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.UploadFailures++
	m.snap.LastUpdateTime = time.Now()
	m.responses.WithLabelValues("upload_failed").Inc()
}

func (m *Metrics) IncrementAPICall(op string, success bool, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap.APICallsTotal++
	status := "failure"
	if success {
		m.snap.APICallsSuccessful++
		status = "success"
	}
	m.snap.LastUpdateTime = time.Now()
	m.apiCalls.WithLabelValues(op, status).Inc()
	m.apiTiming.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) GetSnapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snap
}
