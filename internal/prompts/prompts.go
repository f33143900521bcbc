// Package prompts содержит тексты, которые кандидат видит в каждом состоянии интервью
package prompts

import (
	"fmt"
	"strings"

	"mock-interview/internal/config"
	"mock-interview/internal/interview"
)

// Screen — текст одного экрана
type Screen struct {
	Title string   `json:"title"`
	Lines []string `json:"lines"`
	Hint  string   `json:"hint,omitempty"`
}

// String рендерит экран для терминала
func (s Screen) String() string {
	var b strings.Builder
	b.WriteString(s.Title)
	b.WriteString("\n")
	for _, line := range s.Lines {
		b.WriteString(line)
		b.WriteString("\n")
	}
	if s.Hint != "" {
		b.WriteString("\n")
		b.WriteString(s.Hint)
		b.WriteString("\n")
	}
	return b.String()
}

// Welcome возвращает приветствие и инструкции перед началом
func Welcome(flow config.Flow) Screen {
	lines := []string{
		"Get ready to practice with questions tailored to your profile.",
		"",
		"How it works:",
	}
	step := 1
	if flow.SpeakQuestions {
		lines = append(lines, fmt.Sprintf("%d. Listen: each question is read aloud", step))
		step++
	}
	lines = append(lines,
		fmt.Sprintf("%d. Record: answer the question and submit your recording", step),
		fmt.Sprintf("%d. Next: the next question loads right after your answer", step+1),
		"",
		fmt.Sprintf("Questions: %d", flow.MaxQuestions),
	)
	if flow.AllowSkip {
		lines = append(lines, "You may skip a question you do not want to answer.")
	}

	title := "Welcome to Your Personalized Interview!"
	if flow.Title != "" {
		title = fmt.Sprintf("%s (%s)", title, flow.Title)
	}
	return Screen{Title: title, Lines: lines, Hint: "Start the interview when you are ready."}
}

// Progress возвращает строку прогресса "Question i of max"
func Progress(s *interview.Session) string {
	if s.QuestionIndex == 0 {
		return fmt.Sprintf("0 of %d questions", s.MaxQuestions)
	}
	return fmt.Sprintf("Question %d of %d", s.QuestionIndex, s.MaxQuestions)
}

// ForSession подбирает экран по текущему состоянию сессии
func ForSession(s *interview.Session, flow config.Flow) Screen {
	switch s.State {
	case interview.NotStarted:
		screen := Welcome(flow)
		if s.LastError != "" {
			screen.Hint = s.LastError + " Try starting again."
		}
		return screen
	case interview.AwaitingQuestion:
		screen := Screen{Title: Progress(s), Lines: []string{"Loading next question..."}}
		if s.LastError != "" {
			screen.Lines = []string{s.LastError}
			screen.Hint = "Retry to load the question, or end the interview."
		}
		return screen
	case interview.PresentingQuestion, interview.Recording, interview.Submitting:
		return questionScreen(s)
	case interview.Completed:
		return Completion(s.Summary(), s.EndedEarly)
	default:
		return Screen{Title: s.State.String()}
	}
}

func questionScreen(s *interview.Session) Screen {
	screen := Screen{Title: Progress(s), Lines: []string{s.QuestionText}}
	switch {
	case s.LastError != "":
		screen.Hint = s.LastError
	case s.State == interview.Recording:
		screen.Hint = "Recording... submit when you are done."
	case s.State == interview.Submitting:
		screen.Hint = "Processing your answer..."
	case s.AllowSkip:
		screen.Hint = "Record your answer, or skip this question."
	default:
		screen.Hint = "Record your answer."
	}
	return screen
}

// Completion строит итоговый экран
func Completion(sum interview.Summary, endedEarly bool) Screen {
	title := "Interview Complete!"
	if endedEarly {
		title = "Interview Ended"
	}
	lines := []string{fmt.Sprintf("You answered %d out of %d questions.", sum.Answered, sum.Total)}
	if sum.Skipped > 0 {
		lines = append(lines, fmt.Sprintf("Skipped: %d", sum.Skipped))
	}
	if sum.Pending > 0 {
		lines = append(lines, fmt.Sprintf("Unanswered: %d", sum.Pending))
	}

	hint := "Open your feedback to see how you did."
	if sum.Answered == 0 {
		hint = "No questions were answered. Consider trying again!"
	}
	return Screen{Title: title, Lines: lines, Hint: hint}
}
