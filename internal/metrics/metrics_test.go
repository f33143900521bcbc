package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSnapshotCounts(t *testing.T) {
	m := NewMetrics()

	m.IncrementSessionsStarted()
	m.IncrementQuestionsAsked()
	m.IncrementQuestionsAsked()
	m.IncrementResponsesRecorded()
	m.IncrementResponsesSkipped()
	m.IncrementUploadFailures()
	m.IncrementAPICall("next question", true, 10*time.Millisecond)
	m.IncrementAPICall("upload response", false, 20*time.Millisecond)
	m.IncrementSessionsCompleted(true)

	s := m.GetSnapshot()
	if s.SessionsStarted != 1 || s.SessionsCompleted != 1 || s.SessionsEndedEarly != 1 {
		t.Errorf("session counters = %+v", s)
	}
	if s.QuestionsAsked != 2 {
		t.Errorf("QuestionsAsked = %d, want 2", s.QuestionsAsked)
	}
	if s.ResponsesRecorded != 1 || s.ResponsesSkipped != 1 || s.UploadFailures != 1 {
		t.Errorf("response counters = %+v", s)
	}
	if s.APICallsTotal != 2 || s.APICallsSuccessful != 1 {
		t.Errorf("api counters = %+v", s)
	}
	if s.LastUpdateTime.IsZero() {
		t.Error("LastUpdateTime not set")
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	m := NewMetrics()
	m.IncrementSessionsStarted()
	m.IncrementAPICall("initial question", true, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	out := string(body)
	for _, want := range []string{
		`mock_interview_sessions_total{event="started"} 1`,
		`mock_interview_backend_calls_total{op="initial question",status="success"} 1`,
		"mock_interview_backend_call_duration_seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestCompletedWithoutEarlyEnd(t *testing.T) {
	m := NewMetrics()
	m.IncrementSessionsCompleted(false)

	s := m.GetSnapshot()
	if s.SessionsCompleted != 1 || s.SessionsEndedEarly != 0 {
		t.Errorf("snapshot = %+v", s)
	}
}
