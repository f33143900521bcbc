package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const statusSuccess = "success"

// envelope — общая обертка ответов Backend API
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Detail  string          `json:"detail"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Detail
}

// Candidate представляет профиль кандидата
type Candidate struct {
	Name         string   `json:"candidate_name"`
	Email        string   `json:"candidate_email"`
	Role         string   `json:"role"`
	Skills       TextList `json:"skills"`
	Projects     TextList `json:"projects"`
	Education    TextList `json:"education"`
	Achievements TextList `json:"achievements"`
	Experience   TextList `json:"experience"`
}

// Registration содержит поля запроса на создание кандидата
type Registration struct {
	Name         string  `json:"candidate_name"`
	Email        string  `json:"candidate_email"`
	Role         string  `json:"role"`
	Skills       string  `json:"skills"`
	Education    string  `json:"education"`
	Projects     *string `json:"projects"`
	Achievements *string `json:"achievements"`
	Experience   *string `json:"experience"`
}

// Normalize обрезает пробелы и заменяет пустые необязательные поля на null
func (r Registration) Normalize() Registration {
	out := Registration{
		Name:      strings.TrimSpace(r.Name),
		Email:     strings.TrimSpace(r.Email),
		Role:      strings.TrimSpace(r.Role),
		Skills:    strings.TrimSpace(r.Skills),
		Education: strings.TrimSpace(r.Education),
	}
	out.Projects = optional(r.Projects)
	out.Achievements = optional(r.Achievements)
	out.Experience = optional(r.Experience)
	return out
}

// Validate проверяет обязательные поля регистрации
func (r Registration) Validate() error {
	var missing []string
	for _, f := range []struct{ name, value string }{
		{"name", r.Name},
		{"email", r.Email},
		{"role", r.Role},
		{"skills", r.Skills},
		{"education", r.Education},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &Error{
			Op:      "register candidate",
			Kind:    InputFailure,
			Message: "Please fill in all required fields: " + strings.Join(missing, ", ") + ".",
		}
	}
	return nil
}

// Candidate возвращает профиль, который появится после успешной регистрации
func (r Registration) Candidate() Candidate {
	deref := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}
	return Candidate{
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		Skills:       SplitList(r.Skills),
		Education:    SplitList(r.Education),
		Projects:     SplitList(deref(r.Projects)),
		Achievements: SplitList(deref(r.Achievements)),
		Experience:   SplitList(deref(r.Experience)),
	}
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

type questionData struct {
	Question string `json:"question"`
}

// Audio — файл ответа для загрузки
type Audio struct {
	Data        []byte
	Filename    string
	ContentType string
}

// UploadAck — подтверждение загрузки ответа
type UploadAck struct {
	Message string
	Data    json.RawMessage
}

// InterviewRecord представляет одну запись истории интервью
type InterviewRecord struct {
	ID        string
	CreatedAt string
	Score     *float64
	Summary   string
}

func (r *InterviewRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        json.RawMessage `json:"id"`
		CreatedAt string          `json:"created_at"`
		Score     json.RawMessage `json:"score"`
		Summary   string          `json:"summary"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ID = scalarString(raw.ID)
	r.CreatedAt = raw.CreatedAt
	r.Summary = raw.Summary
	if s := scalarString(raw.Score); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			r.Score = &v
		}
	}
	return nil
}

// TextList принимает строку через запятую, массив строк или null
type TextList []string

func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if data[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make(TextList, 0, len(items))
		for _, item := range items {
			if s := strings.TrimSpace(scalarString(item)); s != "" {
				out = append(out, s)
			}
		}
		*l = out
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*l = TextList{scalarString(data)}
		return nil
	}
	*l = SplitList(s)
	return nil
}

// SplitList делит строку по запятым, отбрасывая пустые элементы
func SplitList(s string) TextList {
	var out TextList
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// scalarString приводит JSON строку или число к строке
func scalarString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
