package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("storyfmt %v: %v (stderr %q)", args, err, errOut.String())
	}
	return out.String()
}

func TestCaptionFromFlag(t *testing.T) {
	got := run(t, "", "caption", "--text", "Hello there.")
	if got != "<p>Hello there.</p>\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestStoryFromStdin(t *testing.T) {
	got := run(t, "First.\n\nSecond.\n", "story")
	if got != "<p>First.</p><p>Second.</p>\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestTypographyFlag(t *testing.T) {
	got := run(t, "", "caption", "--typography", "--text", `He said "wait..."`)
	if got != "<p>He said “wait…”</p>\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestRenderFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trip.md")
	if err := os.WriteFile(path, []byte("# Day one\n\nText here.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got := run(t, "", "render", path)
	if got != "<!-- trip: Day one -->\n<p>Text here.</p>\n" {
		t.Errorf("unexpected output %q", got)
	}

	var results []fileResult
	if err := json.Unmarshal([]byte(run(t, "", "render", "--json", path)), &results); err != nil {
		t.Fatalf("decode json output: %v", err)
	}
	if len(results) != 1 || len(results[0].Entries) != 1 || results[0].Entries[0].HTML != "<p>Text here.</p>" {
		t.Errorf("unexpected results %+v", results)
	}
}

func TestRenderWithCache(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(path, []byte("Cached text."), 0o644); err != nil {
		t.Fatal(err)
	}
	db := filepath.Join(dir, "render.db")

	first := run(t, "", "render", "--cache", db, path)
	second := run(t, "", "render", "--cache", db, path)
	if first != second || !strings.Contains(first, "<p>Cached text.</p>") {
		t.Errorf("cached render differs: %q vs %q", first, second)
	}
}

func TestRenderUnsupported(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"render", "photo.jpg"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for unsupported file")
	}
}
