package cache

import (
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "render.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGetPut(t *testing.T) {
	c := openTemp(t)

	if _, ok, err := c.Get(ModeCaption, "hello"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Put(ModeCaption, "hello", "<p>hello</p>"); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, ok, err := c.Get(ModeCaption, "hello")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != "<p>hello</p>" {
		t.Errorf("got %q", got)
	}

	// Same text in the other mode is a separate entry.
	if _, ok, _ := c.Get(ModeStory, "hello"); ok {
		t.Error("expected story mode miss")
	}

	n, err := c.Len()
	if err != nil {
		t.Fatalf("len: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
}

func TestPutOverwrites(t *testing.T) {
	c := openTemp(t)
	c.Put(ModeStory, "text", "old")
	c.Put(ModeStory, "text", "new")

	if got, _, _ := c.Get(ModeStory, "text"); got != "new" {
		t.Errorf("expected overwrite, got %q", got)
	}
	if n, _ := c.Len(); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}
}

func TestReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.db")
	c, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := c.Put(ModeStory, "text", "<p>text</p>"); err != nil {
		t.Fatalf("put: %v", err)
	}
	c.Close()

	c, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer c.Close()
	if got, ok, err := c.Get(ModeStory, "text"); err != nil || !ok || got != "<p>text</p>" {
		t.Errorf("after reopen got %q, %v, %v", got, ok, err)
	}
}

func TestKey(t *testing.T) {
	if Key(ModeStory, "a") == Key(ModeCaption, "a") {
		t.Error("modes should not share keys")
	}
	if Key(ModeStory, "a") != Key(ModeStory, "a") {
		t.Error("key should be stable")
	}
	if len(Key(ModeStory, "a")) != 64 {
		t.Errorf("expected 32 byte hex key, got %d chars", len(Key(ModeStory, "a")))
	}
}
