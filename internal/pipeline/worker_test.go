package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/trailimage/storyfmt/internal/cache"
	"github.com/trailimage/storyfmt/internal/config"
	"github.com/trailimage/storyfmt/internal/format"
	"github.com/trailimage/storyfmt/internal/stats"
)

func testRenderer(t *testing.T, c *cache.Cache) *Renderer {
	t.Helper()
	return NewRenderer(format.New(format.Options{}), c, stats.New(time.Hour), slog.New(slog.DiscardHandler))
}

func TestWorker_RendersCSVEntries(t *testing.T) {
	w := NewWorker(testRenderer(t, nil), slog.New(slog.DiscardHandler), 2)
	job := NewJob("batch.csv", "", cache.ModeStory, []byte("id,caption\na,First entry.\nb,Second entry.\n"))

	w.Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %q (errors %v)", snap.Status, snap.Progress.Errors)
	}
	if snap.Title != "batch" {
		t.Errorf("expected title from filename, got %q", snap.Title)
	}
	want := []Result{
		{Title: "a", Page: 2, HTML: "<p>First entry.</p>"},
		{Title: "b", Page: 3, HTML: "<p>Second entry.</p>"},
	}
	if len(snap.Results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(snap.Results))
	}
	for i := range want {
		if snap.Results[i] != want[i] {
			t.Errorf("result %d: expected %+v, got %+v", i, want[i], snap.Results[i])
		}
	}
	if job.FileData() != nil {
		t.Error("expected upload to be released after parsing")
	}
}

func TestWorker_UsesCache(t *testing.T) {
	c, err := cache.Open(filepath.Join(t.TempDir(), "render.db"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer c.Close()

	r := testRenderer(t, c)
	w := NewWorker(r, slog.New(slog.DiscardHandler), 4)
	data := []byte("One paragraph.\n\nAnother paragraph.")

	first := NewJob("note.txt", "Note", cache.ModeCaption, data)
	w.Process(context.Background(), first)
	second := NewJob("note.txt", "Note", cache.ModeCaption, data)
	w.Process(context.Background(), second)

	if got := first.Snapshot().Progress.CacheHits; got != 0 {
		t.Errorf("expected first run to miss, got %d hits", got)
	}
	snap := second.Snapshot()
	if snap.Progress.CacheHits != 1 {
		t.Errorf("expected second run to hit, got %d hits", snap.Progress.CacheHits)
	}
	if snap.Title != "Note" {
		t.Errorf("expected given title to be kept, got %q", snap.Title)
	}
	if snap.Results[0].HTML != "<p>One paragraph.</p><p>Another paragraph.</p>" {
		t.Errorf("unexpected html %q", snap.Results[0].HTML)
	}
	if st := r.Stats().Snapshot(); st.Count != 2 || st.CacheHits != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestWorker_Failures(t *testing.T) {
	w := NewWorker(testRenderer(t, nil), slog.New(slog.DiscardHandler), 1)

	tests := []struct {
		name     string
		filename string
		data     string
	}{
		{"unsupported", "photo.jpg", "binary"},
		{"empty", "empty.txt", "  \n\n"},
		{"bad csv", "bad.csv", "id,author\n1,me\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewJob(tt.filename, "", cache.ModeStory, []byte(tt.data))
			w.Process(context.Background(), job)
			snap := job.Snapshot()
			if snap.Status != StatusFailed {
				t.Errorf("expected failed, got %q", snap.Status)
			}
			if len(snap.Progress.Errors) == 0 {
				t.Error("expected an error to be recorded")
			}
		})
	}
}

func TestWorker_CancelledContext(t *testing.T) {
	w := NewWorker(testRenderer(t, nil), slog.New(slog.DiscardHandler), 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := NewJob("note.txt", "", cache.ModeStory, []byte("Some text."))
	w.Process(ctx, job)
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Results[0].Error == "" {
		t.Errorf("expected cancelled entry to fail, got %+v", snap)
	}
}

func TestOrchestrator_SubmitAndComplete(t *testing.T) {
	cfg := config.Config{WorkerCount: 2, MaxQueueSize: 4, MaxConcurrentRender: 2, JobTTL: time.Hour}
	o := NewOrchestrator(cfg, testRenderer(t, nil), slog.New(slog.DiscardHandler))
	o.Start(context.Background())
	defer o.Stop()

	job := NewJob("note.txt", "", cache.ModeCaption, []byte("Hello there."))
	if err := o.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if o.GetJob(job.ID) != job {
		t.Fatal("expected submitted job to be tracked")
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if o.GetJob(job.ID).Snapshot().Status == StatusCompleted {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job did not complete, status %q", job.Snapshot().Status)
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := config.Config{WorkerCount: 1, MaxQueueSize: 1, JobTTL: time.Hour}
	// Not started, so nothing drains the queue.
	o := NewOrchestrator(cfg, testRenderer(t, nil), slog.New(slog.DiscardHandler))

	if err := o.Submit(NewJob("a.txt", "", cache.ModeStory, []byte("a"))); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	job := NewJob("b.txt", "", cache.ModeStory, []byte("b"))
	if err := o.Submit(job); err == nil {
		t.Fatal("expected queue full error")
	}
	if job.Snapshot().Status != StatusFailed {
		t.Errorf("expected rejected job to be failed, got %q", job.Snapshot().Status)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]cache.Mode{"": cache.ModeStory, "story": cache.ModeStory, "caption": cache.ModeCaption} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseMode("poem"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
