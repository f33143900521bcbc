package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"mock-interview/internal/interview"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Padding(0, 1)
)

// RenderHistory выводит список прошлых интервью
func RenderHistory(entries []HistoryEntry) string {
	if len(entries) == 0 {
		return mutedStyle.Render("No previous interviews found.") + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Your Past Interviews"))
	b.WriteString("\n")
	for i, e := range entries {
		card := strings.Join([]string{
			headerStyle.Render(fmt.Sprintf("Interview #%d", i+1)) + mutedStyle.Render("  "+e.Date),
			"Score: " + scoreStyle.Render(e.Score),
			"Summary: " + e.Summary,
		}, "\n")
		b.WriteString(cardStyle.Render(card))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderFeedback выводит разбор; nil означает отсутствие данных
func RenderFeedback(fb *Feedback) string {
	if fb == nil {
		return warningStyle.Render(NoDataMessage) + "\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Overall Evaluation"))
	b.WriteString("\n")

	o := fb.Overall
	fmt.Fprintf(&b, "Overall Score: %s   Communication: %s   Content Quality: %s   Domain Insight: %s\n",
		scoreStyle.Render(outOf(o.Score)),
		scoreStyle.Render(outOf(o.Communication)),
		scoreStyle.Render(outOf(o.ContentQuality)),
		scoreStyle.Render(outOf(o.DomainInsight)))

	writeList(&b, "Technical Skills", o.TechnicalSkills)
	writeList(&b, "Soft Skills", o.SoftSkills)

	b.WriteString(headerStyle.Render("Reasoning"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Overall: %s\nCommunication: %s\nContent Quality: %s\nDomain Insight: %s\n",
		o.Reasoning, o.CommunicationReasoning, o.ContentQualityReasoning, o.DomainInsightReasoning)

	if fb.GeneralObservations != "" || len(fb.Questions) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Per-Question Feedback"))
		b.WriteString("\n")
	}
	if fb.GeneralObservations != "" {
		b.WriteString(mutedStyle.Render(fb.GeneralObservations))
		b.WriteString("\n")
	}
	for i, q := range fb.Questions {
		b.WriteString(cardStyle.Render(renderQuestion(i+1, q)))
		b.WriteString("\n")
	}
	return b.String()
}

func renderQuestion(n int, q QuestionFeedback) string {
	lines := []string{
		headerStyle.Render(fmt.Sprintf("Q%d: %s", n, q.Question)),
		"Score: " + scoreStyle.Render(q.Score),
		"Summary Reasoning: " + q.Reasoning,
	}
	for _, c := range q.Criteria {
		lines = append(lines, fmt.Sprintf("%s: %s. %s", c.Name, scoreStyle.Render(c.Score), c.Reasoning))
	}
	if q.IdealAnswer != "" {
		lines = append(lines, "Ideal Answer: "+q.IdealAnswer)
	}
	return strings.Join(lines, "\n")
}

// RenderSummary выводит итог завершенной попытки
func RenderSummary(sum interview.Summary, endedEarly bool) string {
	title := "Interview Complete!"
	if endedEarly {
		title = "Interview Ended"
	}
	body := fmt.Sprintf("You answered %d out of %d questions", sum.Answered, sum.Total)
	if sum.Skipped > 0 {
		body += fmt.Sprintf("\nSkipped: %d", sum.Skipped)
	}
	if sum.Pending > 0 {
		body += fmt.Sprintf("\nUnanswered: %d", sum.Pending)
	}
	if sum.Answered == 0 {
		body += "\n" + warningStyle.Render("No questions were answered. Consider trying again!")
	}
	return cardStyle.Render(titleStyle.Render(title)+"\n"+body) + "\n"
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")
	for _, item := range items {
		b.WriteString("- " + item + "\n")
	}
}

func outOf(score string) string {
	if score == NotAvailable {
		return score
	}
	return score + "/10"
}
