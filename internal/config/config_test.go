package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "STORYFMT_API_KEY", "WORKER_COUNT", "JOB_TTL", "TYPOGRAPHY", "CACHE_PATH"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" {
		t.Errorf("expected default port 8090, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected 4 workers, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != time.Hour {
		t.Errorf("expected 1h TTL, got %v", cfg.JobTTL)
	}
	if cfg.Typography {
		t.Error("expected typography off by default")
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error without api key")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("STORYFMT_API_KEY", "secret")
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("JOB_TTL", "5m")
	t.Setenv("TYPOGRAPHY", "true")

	cfg := Load()
	if cfg.Port != "9000" {
		t.Errorf("expected port 9000, got %q", cfg.Port)
	}
	if cfg.WorkerCount != 4 {
		t.Errorf("expected invalid worker count to fall back to 4, got %d", cfg.WorkerCount)
	}
	if cfg.JobTTL != 5*time.Minute {
		t.Errorf("expected 5m TTL, got %v", cfg.JobTTL)
	}
	if !cfg.Typography {
		t.Error("expected typography on")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoadIcons(t *testing.T) {
	path := filepath.Join(t.TempDir(), "icons.yaml")
	if err := os.WriteFile(path, []byte("icons:\n  haiku: eco\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	icons, err := Config{IconsFile: path}.LoadIcons()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if icons.Haiku != "eco" || icons.Credit != "star" {
		t.Errorf("unexpected icons %+v", icons)
	}
}

func TestLoadIcons_Missing(t *testing.T) {
	_, err := Config{IconsFile: filepath.Join(t.TempDir(), "nope.yaml")}.LoadIcons()
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestFormatter_Typography(t *testing.T) {
	f, err := Config{Typography: true}.Formatter()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := f.Caption(`He said "hi" -- twice.`)
	if !strings.Contains(got, "“hi”") || !strings.Contains(got, "—") {
		t.Errorf("expected typographic punctuation, got %q", got)
	}
}
