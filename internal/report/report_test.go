package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"mock-interview/internal/backend"
	"mock-interview/internal/interview"
	"mock-interview/internal/storage"
)

const interviewFeedback = `{
	"overall_feedback": {
		"overall_score": 7,
		"overall_communication_score": "8",
		"technical_skills_with_score": ["Go (8/10)", {"skill": "SQL", "score": 6}],
		"soft_skills_with_score": "Teamwork",
		"overall_reasoning": "Solid answers overall."
	},
	"question_feedback": {
		"overall_analysis": "Answers were structured.",
		"question_analysis": [
			{
				"question": "Tell me about yourself.",
				"overall_score": 7.5,
				"overall_reasoning": "Clear.",
				"question_and_response_detailed_analysis": [
					{
						"communication_score": 8,
						"communication_reasoning": "Fluent.",
						"content_quality_score": 6.5,
						"domain_insight_score": null,
						"ideal_answer": "Lead with impact."
					}
				]
			},
			{"question": "Why this role?"}
		]
	}
}`

func TestParseFeedback(t *testing.T) {
	fb, err := ParseFeedback([]byte(interviewFeedback))
	if err != nil {
		t.Fatalf("ParseFeedback: %v", err)
	}

	o := fb.Overall
	if o.Score != "7" || o.Communication != "8" || o.ContentQuality != NotAvailable {
		t.Errorf("scores = %+v", o)
	}
	if o.CommunicationReasoning != NotAvailable || o.Reasoning != "Solid answers overall." {
		t.Errorf("reasoning = %+v", o)
	}
	if len(o.TechnicalSkills) != 2 || o.TechnicalSkills[1] != "SQL (6/10)" {
		t.Errorf("technical skills = %v", o.TechnicalSkills)
	}
	if len(o.SoftSkills) != 1 || o.SoftSkills[0] != "Teamwork" {
		t.Errorf("soft skills = %v", o.SoftSkills)
	}
	if fb.GeneralObservations != "Answers were structured." || len(fb.Questions) != 2 {
		t.Fatalf("questions = %+v", fb)
	}

	q := fb.Questions[0]
	if q.Score != "7.5" || len(q.Criteria) != 5 || q.IdealAnswer != "Lead with impact." {
		t.Errorf("question 1 = %+v", q)
	}
	wantScores := []string{"8/10", NotAvailable, NotAvailable, NotAvailable, NotAvailable}
	for i, c := range q.Criteria {
		if c.Score != wantScores[i] {
			t.Errorf("%s score = %q, want %q", c.Name, c.Score, wantScores[i])
		}
	}

	bare := fb.Questions[1]
	if bare.Score != NotAvailable || bare.Reasoning != NotAvailable || bare.Criteria != nil {
		t.Errorf("question 2 = %+v", bare)
	}
}

func TestParseOverallFeedbackShape(t *testing.T) {
	fb, err := ParseFeedback([]byte(`{"feedback_by_question": {"question_analysis": [{"question": "Q"}]}}`))
	if err != nil {
		t.Fatalf("ParseFeedback: %v", err)
	}
	if len(fb.Questions) != 1 || fb.Overall.Score != NotAvailable {
		t.Errorf("feedback = %+v", fb)
	}
}

func TestParseFeedbackNoData(t *testing.T) {
	for _, in := range []string{"", "null", "[]", "not json", `{}`, `{"question_feedback": {}}`, `"text"`} {
		if _, err := ParseFeedback([]byte(in)); !errors.Is(err, ErrNoData) {
			t.Errorf("ParseFeedback(%q) err = %v, want ErrNoData", in, err)
		}
	}
}

func TestHistory(t *testing.T) {
	score := 8.5
	records := []backend.InterviewRecord{
		{ID: "1", CreatedAt: "2024-05-01T09:15:00", Score: &score, Summary: "Good"},
		{ID: "2", CreatedAt: "garbage"},
		{ID: "3", CreatedAt: "2024-06-10T18:05:30.123456", Summary: " "},
	}

	entries := History(records)
	if got := []string{entries[0].ID, entries[1].ID, entries[2].ID}; got[0] != "3" || got[1] != "1" || got[2] != "2" {
		t.Fatalf("order = %v", got)
	}
	if entries[0].Date != "Jun 10, 2024 06:05 PM" || entries[0].Summary != NotAvailable || entries[0].Score != NotAvailable {
		t.Errorf("entry 3 = %+v", entries[0])
	}
	if entries[1].Score != "8.5/10" || entries[1].Date != "May 01, 2024 09:15 AM" {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[2].Date != "garbage" {
		t.Errorf("entry 2 date = %q", entries[2].Date)
	}
}

func TestLocalHistory(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 0, 0, time.UTC)
	entries := LocalHistory([]storage.AttemptRecord{
		{ID: "old", CompletedAt: now.Add(-time.Hour), Summary: interview.Summary{Answered: 3, Total: 3}},
		{ID: "new", CompletedAt: now, EndedEarly: true, Summary: interview.Summary{Answered: 1, Skipped: 1, Pending: 1, Total: 3}},
	})
	if entries[0].ID != "new" || entries[0].Summary != "Answered 1 of 3, skipped 1 (ended early)" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestRender(t *testing.T) {
	fb, err := ParseFeedback([]byte(interviewFeedback))
	if err != nil {
		t.Fatal(err)
	}
	out := RenderFeedback(fb)
	for _, want := range []string{"Overall Evaluation", "Tell me about yourself.", "SQL (6/10)", "Lead with impact."} {
		if !strings.Contains(out, want) {
			t.Errorf("feedback output missing %q", want)
		}
	}
	if !strings.Contains(RenderFeedback(nil), NoDataMessage) {
		t.Error("nil feedback should render no-data message")
	}

	if !strings.Contains(RenderHistory(nil), "No previous interviews found.") {
		t.Error("empty history message missing")
	}
	hist := RenderHistory([]HistoryEntry{{Date: "Jan 02, 2025 03:04 AM", Score: "7/10", Summary: "ok"}})
	if !strings.Contains(hist, "Interview #1") || !strings.Contains(hist, "7/10") {
		t.Errorf("history output:\n%s", hist)
	}

	sum := RenderSummary(interview.Summary{Answered: 2, Skipped: 1, Total: 3}, false)
	if !strings.Contains(sum, "You answered 2 out of 3 questions") {
		t.Errorf("summary output:\n%s", sum)
	}
}
