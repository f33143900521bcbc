package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/textproto"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"mock-interview/internal/config"
	"mock-interview/internal/metrics"
)

const (
	// максимальный размер ответа, который читаем целиком
	maxResponseBytes = 8 << 20
	// длина текста ответа в сообщении об ошибке
	maxErrorMessage = 200

	defaultUploadName = "response"
	defaultUploadType = "application/octet-stream"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// Client обращается к Backend API
type Client struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
	metrics *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New создает клиент Backend API с ограниченным таймаутом
func New(cfg config.BackendConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultBackendTimeout
	}
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fork возвращает клиент с собственным cookie jar и общим транспортом.
// Бэкенд ведет состояние интервью по своей сессии, поэтому каждому
// кандидату нужен свой jar.
func (c *Client) Fork() *Client {
	jar, _ := cookiejar.New(nil)
	hc := *c.client
	hc.Jar = jar
	return &Client{
		baseURL: c.baseURL,
		client:  &hc,
		log:     c.log,
		metrics: c.metrics,
	}
}

// GetCandidate получает профиль кандидата (вход существующего пользователя)
func (c *Client) GetCandidate(ctx context.Context, candidateID string) (*Candidate, error) {
	const op = "get candidate"
	if err := requireID(op, candidateID); err != nil {
		return nil, err
	}

	var candidate Candidate
	err := c.getJSON(ctx, op, "/candidate/"+url.PathEscape(candidateID), &candidate)
	if err != nil {
		return nil, err
	}
	if candidate.Email == "" {
		candidate.Email = candidateID
	}
	return &candidate, nil
}

// RegisterCandidate создает кандидата; любой 2xx считается успехом
func (c *Client) RegisterCandidate(ctx context.Context, reg Registration) error {
	const op = "register candidate"
	reg = reg.Normalize()
	if err := reg.Validate(); err != nil {
		return err
	}

	jsonData, err := json.Marshal(reg)
	if err != nil {
		return protocolError(op, "ошибка сериализации запроса: %w", err)
	}

	status, body, err := c.do(ctx, op, http.MethodPost, "/candidates/register", bytes.NewReader(jsonData), "application/json")
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return httpError(op, status, body)
	}
	return nil
}

// InitialQuestion получает первый вопрос для кандидата
func (c *Client) InitialQuestion(ctx context.Context, candidateID string) (string, error) {
	const op = "initial question"
	if err := requireID(op, candidateID); err != nil {
		return "", err
	}
	return c.question(ctx, op, "/candidates/"+url.PathEscape(candidateID)+"/interview-questions")
}

// NextQuestion получает следующий вопрос; бэкенд помнит интервью по своей сессии
func (c *Client) NextQuestion(ctx context.Context) (string, error) {
	return c.question(ctx, "next question", "/next-question")
}

func (c *Client) question(ctx context.Context, op, path string) (string, error) {
	var q questionData
	if err := c.getJSON(ctx, op, path, &q); err != nil {
		return "", err
	}
	text := strings.TrimSpace(q.Question)
	if text == "" {
		return "", protocolError(op, "no question received from server")
	}
	return text, nil
}

// UploadResponse отправляет аудио ответа вместе с текстом вопроса.
// Байты уходят без изменений с именем файла и типом, которые указал вызывающий.
func (c *Client) UploadResponse(ctx context.Context, question string, audio Audio) (*UploadAck, error) {
	const op = "upload response"
	if len(audio.Data) == 0 {
		return nil, &Error{Op: op, Kind: InputFailure, Message: "No audio data to upload."}
	}
	filename, contentType := audio.Filename, audio.ContentType
	if filename == "" {
		filename = defaultUploadName
	}
	if contentType == "" {
		contentType = defaultUploadType
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	if err := writer.WriteField("question", question); err != nil {
		return nil, protocolError(op, "ошибка формирования формы: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="audio_file"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, protocolError(op, "ошибка формирования формы: %w", err)
	}
	if _, err := part.Write(audio.Data); err != nil {
		return nil, protocolError(op, "ошибка формирования формы: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, protocolError(op, "ошибка формирования формы: %w", err)
	}

	status, respBody, err := c.do(ctx, op, http.MethodPost, "/responses/upload", &body, writer.FormDataContentType())
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, httpError(op, status, respBody)
	}

	// Тело подтверждения не обязано быть JSON; явный status != success все равно считается отказом
	ack := &UploadAck{}
	var env envelope
	if json.Unmarshal(respBody, &env) == nil {
		if env.Status != "" && env.Status != statusSuccess {
			return nil, &Error{Op: op, Kind: ApplicationFailure, StatusCode: status, Message: env.message()}
		}
		ack.Message = env.message()
		ack.Data = env.Data
	}
	return ack, nil
}

// CandidateInterviews получает историю интервью кандидата
func (c *Client) CandidateInterviews(ctx context.Context, candidateID string) ([]InterviewRecord, error) {
	const op = "candidate interviews"
	if err := requireID(op, candidateID); err != nil {
		return nil, err
	}

	status, body, err := c.do(ctx, op, http.MethodGet, "/candidate/"+url.PathEscape(candidateID)+"/interviews", nil, "")
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, httpError(op, status, body)
	}

	// История приходит либо в обертке {status, data}, либо как {interviews: [...]}
	var raw struct {
		Status     *string           `json:"status"`
		Message    string            `json:"message"`
		Data       json.RawMessage   `json:"data"`
		Interviews []InterviewRecord `json:"interviews"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, protocolError(op, "ошибка парсинга ответа: %w", err)
	}
	if raw.Status != nil && *raw.Status != statusSuccess {
		return nil, &Error{Op: op, Kind: ApplicationFailure, StatusCode: status, Message: raw.Message}
	}
	if raw.Interviews != nil || len(raw.Data) == 0 {
		return raw.Interviews, nil
	}

	var list []InterviewRecord
	if err := json.Unmarshal(raw.Data, &list); err == nil {
		return list, nil
	}
	var nested struct {
		Interviews []InterviewRecord `json:"interviews"`
	}
	if err := json.Unmarshal(raw.Data, &nested); err != nil {
		return nil, protocolError(op, "ошибка парсинга истории: %w", err)
	}
	return nested.Interviews, nil
}

// InterviewFeedback получает разбор одного интервью без интерпретации
func (c *Client) InterviewFeedback(ctx context.Context, interviewID string) (json.RawMessage, error) {
	const op = "interview feedback"
	if err := requireID(op, interviewID); err != nil {
		return nil, err
	}
	var data json.RawMessage
	if err := c.getJSON(ctx, op, "/"+url.PathEscape(interviewID)+"/feedback", &data); err != nil {
		return nil, err
	}
	return data, nil
}

// OverallFeedback получает сводный разбор по всем интервью кандидата
func (c *Client) OverallFeedback(ctx context.Context, candidateID string) (json.RawMessage, error) {
	const op = "overall feedback"
	if err := requireID(op, candidateID); err != nil {
		return nil, err
	}
	var data json.RawMessage
	if err := c.getJSON(ctx, op, "/candidate/"+url.PathEscape(candidateID)+"/overall/feedback", &data); err != nil {
		return nil, err
	}
	return data, nil
}

// getJSON выполняет GET и разворачивает обертку {status, data} в out
func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	status, body, err := c.do(ctx, op, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		if status < 200 || status > 299 {
			return httpError(op, status, body)
		}
		return protocolError(op, "ошибка парсинга ответа: %w", err)
	}

	if env.Status != statusSuccess {
		msg := env.message()
		if msg == "" && env.Status == "" {
			if status < 200 || status > 299 {
				return httpError(op, status, body)
			}
			return protocolError(op, "response has no status field")
		}
		if msg == "" {
			msg = fmt.Sprintf("server returned status %q", env.Status)
		}
		return &Error{Op: op, Kind: ApplicationFailure, StatusCode: nonOK(status), Message: msg}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(env.Data)) == 0 || bytes.Equal(bytes.TrimSpace(env.Data), []byte("null")) {
		return protocolError(op, "response has no data")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return protocolError(op, "ошибка парсинга data: %w", err)
	}
	return nil
}

// do выполняет запрос и читает тело ответа
func (c *Client) do(ctx context.Context, op, method, path string, body io.Reader, contentType string) (int, []byte, error) {
	started := time.Now()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, nil, protocolError(op, "ошибка создания запроса: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(op, started, err)
		return 0, nil, networkError(op, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.observe(op, started, err)
		return 0, nil, networkError(op, fmt.Errorf("ошибка чтения ответа: %w", err))
	}

	var callErr error
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		callErr = fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	c.observe(op, started, callErr)

	return resp.StatusCode, respBody, nil
}

func (c *Client) observe(op string, started time.Time, err error) {
	elapsed := time.Since(started)
	if c.metrics != nil {
		c.metrics.IncrementAPICall(op, err == nil, elapsed)
	}
	ev := c.log.Debug()
	if err != nil {
		ev = c.log.Warn().Err(err)
	}
	ev.Str("op", op).Dur("elapsed", elapsed).Msg("backend call")
}

func httpError(op string, status int, body []byte) *Error {
	var env envelope
	msg := ""
	if json.Unmarshal(body, &env) == nil {
		msg = env.message()
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		msg = truncate(msg, maxErrorMessage)
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Op: op, Kind: ApplicationFailure, StatusCode: status, Message: msg}
}

// truncate обрезает s до n байт, не разрывая UTF-8 символ
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func nonOK(status int) int {
	if status >= 200 && status <= 299 {
		return 0
	}
	return status
}

func requireID(op, id string) error {
	if strings.TrimSpace(id) == "" {
		return &Error{Op: op, Kind: InputFailure, Message: "Candidate identity is missing. Please log in again."}
	}
	return nil
}
