// Package report приводит историю и разборы интервью к виду для показа.
// Бэкенд может вернуть неполные данные; недостающие значения показываются как N/A.
package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const NotAvailable = "N/A"

// ErrNoData — разбор пустой или не читается
var ErrNoData = errors.New("no feedback data available")

// NoDataMessage показывается вместо разбора при ErrNoData
const NoDataMessage = "No feedback data available"

// Feedback — разбор одного интервью или сводный разбор кандидата
type Feedback struct {
	Overall             Overall            `json:"overall"`
	GeneralObservations string             `json:"general_observations,omitempty"`
	Questions           []QuestionFeedback `json:"questions"`
}

type Overall struct {
	Score                   string   `json:"score"`
	Communication           string   `json:"communication"`
	ContentQuality          string   `json:"content_quality"`
	DomainInsight           string   `json:"domain_insight"`
	TechnicalSkills         []string `json:"technical_skills"`
	SoftSkills              []string `json:"soft_skills"`
	Reasoning               string   `json:"reasoning"`
	CommunicationReasoning  string   `json:"communication_reasoning"`
	ContentQualityReasoning string   `json:"content_quality_reasoning"`
	DomainInsightReasoning  string   `json:"domain_insight_reasoning"`
}

type QuestionFeedback struct {
	Question    string      `json:"question"`
	Score       string      `json:"score"`
	Reasoning   string      `json:"reasoning"`
	Criteria    []Criterion `json:"criteria,omitempty"`
	IdealAnswer string      `json:"ideal_answer,omitempty"`
}

// Criterion — одна ось детальной оценки ответа
type Criterion struct {
	Name      string `json:"name"`
	Score     string `json:"score"`
	Reasoning string `json:"reasoning"`
}

type rawFeedback struct {
	Overall            map[string]json.RawMessage `json:"overall_feedback"`
	QuestionFeedback   *rawQuestionBlock          `json:"question_feedback"`
	FeedbackByQuestion *rawQuestionBlock          `json:"feedback_by_question"`
}

type rawQuestionBlock struct {
	Analysis        []map[string]json.RawMessage `json:"question_analysis"`
	OverallAnalysis json.RawMessage              `json:"overall_analysis"`
}

var criteria = []struct{ name, key string }{
	{"Communication", "communication"},
	{"Content Quality", "content_quality"},
	{"Domain Insight", "domain_insight"},
	{"Strategic Depth", "strategic_depth"},
	{"Professional Tone", "professional_tone"},
}

// ParseFeedback разбирает поле data ответа с разбором.
// Разбор отдельного интервью хранит вопросы в question_feedback, сводный в feedback_by_question.
func ParseFeedback(data []byte) (*Feedback, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, ErrNoData
	}

	var raw rawFeedback
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}

	block := raw.QuestionFeedback
	if block == nil {
		block = raw.FeedbackByQuestion
	}
	if len(raw.Overall) == 0 && (block == nil || len(block.Analysis) == 0) {
		return nil, ErrNoData
	}

	fb := &Feedback{Overall: parseOverall(raw.Overall), Questions: []QuestionFeedback{}}
	if block != nil {
		fb.GeneralObservations = text(block.OverallAnalysis, "")
		for _, q := range block.Analysis {
			fb.Questions = append(fb.Questions, parseQuestion(q))
		}
	}
	return fb, nil
}

func parseOverall(m map[string]json.RawMessage) Overall {
	return Overall{
		Score:                   text(m["overall_score"], NotAvailable),
		Communication:           text(m["overall_communication_score"], NotAvailable),
		ContentQuality:          text(m["overall_content_quality_score"], NotAvailable),
		DomainInsight:           text(m["overall_domain_insight_score"], NotAvailable),
		TechnicalSkills:         list(m["technical_skills_with_score"]),
		SoftSkills:              list(m["soft_skills_with_score"]),
		Reasoning:               text(m["overall_reasoning"], NotAvailable),
		CommunicationReasoning:  text(m["overall_communication_reasoning"], NotAvailable),
		ContentQualityReasoning: text(m["overall_content_quality_reasoning"], NotAvailable),
		DomainInsightReasoning:  text(m["overall_domain_insight_reasoning"], NotAvailable),
	}
}

func parseQuestion(m map[string]json.RawMessage) QuestionFeedback {
	q := QuestionFeedback{
		Question:  text(m["question"], "Question"),
		Score:     text(m["overall_score"], NotAvailable),
		Reasoning: text(m["overall_reasoning"], NotAvailable),
	}

	var details []map[string]json.RawMessage
	if err := json.Unmarshal(m["question_and_response_detailed_analysis"], &details); err != nil || len(details) == 0 {
		return q
	}
	d := details[0]
	for _, c := range criteria {
		q.Criteria = append(q.Criteria, Criterion{
			Name:      c.name,
			Score:     outOfTen(d[c.key+"_score"]),
			Reasoning: text(d[c.key+"_reasoning"], NotAvailable),
		})
	}
	q.IdealAnswer = text(d["ideal_answer"], "No ideal answer provided.")
	return q
}

// text возвращает строку или число как текст, иначе fallback
func text(raw json.RawMessage, fallback string) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fallback
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
		return fallback
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return fallback
}

// outOfTen показывает целую оценку как n/10
func outOfTen(raw json.RawMessage) string {
	v, err := strconv.ParseFloat(text(raw, ""), 64)
	if err != nil || v != float64(int(v)) {
		return NotAvailable
	}
	return fmt.Sprintf("%d/10", int(v))
}

func list(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := text(raw, ""); s != "" {
			return []string{s}
		}
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := text(item, ""); s != "" {
			out = append(out, s)
			continue
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil {
			continue
		}
		name := text(obj["skill"], text(obj["name"], ""))
		if name == "" {
			out = append(out, string(item))
			continue
		}
		if score := text(obj["score"], ""); score != "" {
			name = fmt.Sprintf("%s (%s/10)", name, score)
		}
		out = append(out, name)
	}
	return out
}
