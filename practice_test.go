package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"mock-interview/internal/audio"
	"mock-interview/internal/backend"
	"mock-interview/internal/config"
	"mock-interview/internal/interview"
	"mock-interview/internal/storage"
)

type practiceAPI struct {
	mu        sync.Mutex
	questions int
	uploads   int
	failNext  bool
}

func (f *practiceAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case strings.HasSuffix(r.URL.Path, "/interview-questions"), r.URL.Path == "/next-question":
		if f.failNext {
			f.failNext = false
			io.WriteString(w, `{"status":"error","message":"Question service busy"}`)
			return
		}
		f.questions++
		io.WriteString(w, `{"status":"success","data":{"question":"Question `+strconv.Itoa(f.questions)+`"}}`)
	case r.URL.Path == "/responses/upload":
		f.uploads++
		io.WriteString(w, `{"status":"success","message":"uploaded"}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"status":"error","message":"not found"}`)
	}
}

func runPractice(t *testing.T, api *practiceAPI, flow config.Flow, input string) (string, *storage.FileRepository) {
	t.Helper()
	p, out, repo := newPractice(t, api, flow, strings.NewReader(input))
	if err := p.run(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String(), repo
}

func newPractice(t *testing.T, api *practiceAPI, flow config.Flow, input io.Reader) (*practice, *bytes.Buffer, *storage.FileRepository) {
	t.Helper()
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	repo, err := storage.NewFileRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := backend.New(config.BackendConfig{BaseURL: ts.URL})
	controller := interview.NewController(client,
		interview.WithObserver(storage.NewJournal(repo, zerolog.Nop())))

	out := &bytes.Buffer{}
	p := &practice{
		controller: controller,
		flow:       flow,
		in:         readLines(input),
		out:        out,
	}
	return p, out, repo
}

func writeWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "answer.wav")
	if err := os.WriteFile(path, audio.EncodeWAV([]byte{1, 0, 2, 0}, audio.DefaultSampleRate, 1), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestPracticeEndsEarly(t *testing.T) {
	api := &practiceAPI{}
	flow := config.Flow{Name: "standard", MaxQuestions: 5, AllowSkip: true}
	out, repo := runPractice(t, api, flow, writeWAV(t)+"\n\nend\n")

	if !strings.Contains(out, "Question 3") {
		t.Errorf("third question not shown:\n%s", out)
	}
	if !strings.Contains(out, "Interview Ended") || !strings.Contains(out, "You answered 1 out of 3 questions") {
		t.Errorf("summary missing:\n%s", out)
	}
	api.mu.Lock()
	if api.uploads != 1 {
		t.Errorf("uploads = %d", api.uploads)
	}
	api.mu.Unlock()

	records, err := repo.List(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || !records[0].EndedEarly || records[0].Summary.Skipped != 1 {
		t.Errorf("journal = %+v", records)
	}
}

func TestPracticeCompletesAtLimit(t *testing.T) {
	api := &practiceAPI{}
	flow := config.Flow{Name: "short", MaxQuestions: 2}
	wav := writeWAV(t)
	out, _ := runPractice(t, api, flow, wav+"\n"+wav+"\n")

	if !strings.Contains(out, "Interview Complete!") || !strings.Contains(out, "You answered 2 out of 2 questions") {
		t.Errorf("summary missing:\n%s", out)
	}
	api.mu.Lock()
	if api.questions != 2 {
		t.Errorf("questions fetched = %d", api.questions)
	}
	api.mu.Unlock()
}

func TestPracticeRetriesFirstQuestion(t *testing.T) {
	api := &practiceAPI{failNext: true}
	flow := config.Flow{Name: "standard", MaxQuestions: 5, AllowSkip: true}
	out, _ := runPractice(t, api, flow, "retry\nend\n")

	if !strings.Contains(out, "Question service busy") {
		t.Errorf("failure not reported:\n%s", out)
	}
	if !strings.Contains(out, "Question 1") {
		t.Errorf("retry did not fetch question:\n%s", out)
	}
}

func TestPracticeSkipDisabled(t *testing.T) {
	api := &practiceAPI{}
	flow := config.Flow{Name: "short", MaxQuestions: 3}
	out, _ := runPractice(t, api, flow, "\nend\n")

	if !strings.Contains(out, "Skipping is not available") {
		t.Errorf("skip refusal missing:\n%s", out)
	}
	if !strings.Contains(out, "No questions were answered") {
		t.Errorf("empty summary missing:\n%s", out)
	}
}

func TestPracticeEOFEndsEarly(t *testing.T) {
	out, _ := runPractice(t, &practiceAPI{}, config.Flow{Name: "standard", MaxQuestions: 5, AllowSkip: true}, "")
	if !strings.Contains(out, "Interview Ended") {
		t.Errorf("EOF should end the interview:\n%s", out)
	}
}

func TestPracticeInterruptWhileWaitingForInput(t *testing.T) {
	// stdin, в который никто не пишет, как у терминала без ввода
	stdin, w := io.Pipe()
	t.Cleanup(func() { w.Close() })
	p, out, repo := newPractice(t, &practiceAPI{}, config.Flow{Name: "standard", MaxQuestions: 5, AllowSkip: true}, stdin)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	time.AfterFunc(100*time.Millisecond, cancel)

	done := make(chan error, 1)
	go func() { done <- p.run(ctx, "jane@example.com") }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("practice did not return after cancellation")
	}

	if !strings.Contains(out.String(), "Interview Ended") {
		t.Errorf("interrupt should end the interview:\n%s", out)
	}
	records, err := repo.List(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || !records[0].EndedEarly {
		t.Errorf("journal = %+v", records)
	}
}
