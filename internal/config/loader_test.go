package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
flows:
  - name: quick
    max_questions: 3
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.DefaultFlow != "quick" {
		t.Errorf("DefaultFlow = %q, want quick", cfg.DefaultFlow)
	}
	if cfg.Backend.BaseURL != DefaultBackendURL {
		t.Errorf("BaseURL = %q, want %q", cfg.Backend.BaseURL, DefaultBackendURL)
	}
	if cfg.Backend.Timeout != DefaultBackendTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Backend.Timeout, DefaultBackendTimeout)
	}
	if cfg.Storage.Driver != StorageJSON || cfg.Storage.Path != "results" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
}

func TestParseDurations(t *testing.T) {
	cfg, err := Parse([]byte(`
backend:
  timeout: 15s
server:
  session_ttl: 2h
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Backend.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.Server.SessionTTL != 2*time.Hour {
		t.Errorf("SessionTTL = %v", cfg.Server.SessionTTL)
	}
	if len(cfg.Flows) != 2 {
		t.Errorf("expected built-in flows, got %d", len(cfg.Flows))
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "zero max questions",
			yaml: "flows:\n  - name: a\n    max_questions: 0\n",
			want: "max_questions",
		},
		{
			name: "duplicate flow",
			yaml: "flows:\n  - name: a\n    max_questions: 1\n  - name: a\n    max_questions: 2\n",
			want: "дважды",
		},
		{
			name: "unknown default flow",
			yaml: "default_flow: b\nflows:\n  - name: a\n    max_questions: 1\n",
			want: "default_flow",
		},
		{
			name: "bad backend scheme",
			yaml: "backend:\n  base_url: ftp://host/x\n",
			want: "base_url",
		},
		{
			name: "timeout too large",
			yaml: "backend:\n  timeout: 10m\n",
			want: "timeout",
		},
		{
			name: "unknown storage driver",
			yaml: "storage:\n  driver: redis\n",
			want: "storage.driver",
		},
		{
			name: "postgres without dsn",
			yaml: "storage:\n  driver: postgres\n",
			want: "storage.dsn",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadOrDefaultMissingFile(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault: %v", err)
	}
	flow, err := cfg.GetFlow("")
	if err != nil {
		t.Fatalf("GetFlow: %v", err)
	}
	if flow.Name != "standard" || flow.MaxQuestions != 5 || !flow.AllowSkip {
		t.Errorf("default flow = %+v", flow)
	}
	short, err := cfg.GetFlow("short")
	if err != nil {
		t.Fatalf("GetFlow(short): %v", err)
	}
	if short.MaxQuestions != 3 || short.AllowSkip {
		t.Errorf("short flow = %+v", short)
	}
	if _, err := cfg.GetFlow("nope"); err == nil {
		t.Error("expected error for unknown flow")
	}
}

func TestLoadRepositoryConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "interview.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := strings.Join(cfg.FlowNames(), ","); got != "standard,short" {
		t.Errorf("FlowNames = %q", got)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:9000/interview/")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SERVER_RATE_LIMIT", "not-a-number")

	cfg := Default()
	ApplyEnv(cfg)

	if cfg.Backend.BaseURL != "http://backend:9000/interview" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v", cfg.Backend.Timeout)
	}
	if cfg.Storage.Driver != StorageSQLite {
		t.Errorf("Driver = %q", cfg.Storage.Driver)
	}
	if cfg.Server.RateLimit != 60 {
		t.Errorf("RateLimit = %d, want default kept", cfg.Server.RateLimit)
	}
}

func TestLoadReadError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("flows: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrDefault(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBackendGetInfo(t *testing.T) {
	cfg, err := Parse([]byte("backend:\n  base_url: https://api.example.com/interview\n  timeout: 45s\n"))
	if err != nil {
		t.Fatal(err)
	}
	info := cfg.Backend.GetInfo()
	if info["base_url"] != "https://api.example.com/interview" || info["timeout"] != "45s" {
		t.Errorf("info = %v", info)
	}
	if len(info) != 2 {
		t.Errorf("unexpected keys: %v", info)
	}
}
