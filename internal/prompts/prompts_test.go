package prompts

import (
	"strings"
	"testing"

	"mock-interview/internal/config"
	"mock-interview/internal/interview"
)

func TestWelcome(t *testing.T) {
	flow := config.Flow{Name: "standard", MaxQuestions: 5, AllowSkip: true, SpeakQuestions: true}
	text := Welcome(flow).String()

	for _, want := range []string{"Questions: 5", "read aloud", "skip"} {
		if !strings.Contains(text, want) {
			t.Errorf("welcome missing %q:\n%s", want, text)
		}
	}

	quiet := Welcome(config.Flow{Name: "short", Title: "Quick run", MaxQuestions: 3})
	text = quiet.String()
	if strings.Contains(text, "read aloud") || strings.Contains(text, "skip") {
		t.Errorf("unexpected instructions:\n%s", text)
	}
	if !strings.Contains(quiet.Title, "Quick run") || !strings.HasPrefix(quiet.Lines[3], "1. Record") {
		t.Errorf("screen = %+v", quiet)
	}
}

func TestForSession(t *testing.T) {
	flow := config.Flow{Name: "short", MaxQuestions: 3, AllowSkip: true}
	s, err := interview.NewSession("a@b.c", flow)
	if err != nil {
		t.Fatal(err)
	}

	if got := ForSession(s, flow); !strings.HasPrefix(got.Title, "Welcome") {
		t.Errorf("not started title = %q", got.Title)
	}

	s.State = interview.PresentingQuestion
	s.QuestionIndex = 2
	s.QuestionText = "Tell me about a hard bug."
	got := ForSession(s, flow)
	if got.Title != "Question 2 of 3" || got.Lines[0] != s.QuestionText || !strings.Contains(got.Hint, "skip") {
		t.Errorf("question screen = %+v", got)
	}

	s.LastError = "Could not reach the interview service. Please try again."
	if got := ForSession(s, flow); got.Hint != s.LastError {
		t.Errorf("error hint = %q", got.Hint)
	}

	s.State = interview.AwaitingQuestion
	if got := ForSession(s, flow); !strings.Contains(got.Hint, "Retry") {
		t.Errorf("awaiting with error = %+v", got)
	}
}

func TestCompletion(t *testing.T) {
	got := Completion(interview.Summary{Answered: 2, Skipped: 1, Total: 3}, false)
	if got.Title != "Interview Complete!" || got.Lines[0] != "You answered 2 out of 3 questions." {
		t.Errorf("completion = %+v", got)
	}

	early := Completion(interview.Summary{}, true)
	if early.Title != "Interview Ended" || !strings.Contains(early.Hint, "No questions were answered") {
		t.Errorf("early = %+v", early)
	}
}
