package pipeline

import (
	"testing"
	"time"

	"github.com/trailimage/storyfmt/internal/cache"
)

func TestNewJob(t *testing.T) {
	job := NewJob("story.txt", "", cache.ModeCaption, []byte("text"))
	if job.ID == "" {
		t.Fatal("expected generated ID")
	}
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if string(job.FileData()) != "text" {
		t.Errorf("expected file data to be kept, got %q", job.FileData())
	}
	if other := NewJob("story.txt", "", cache.ModeCaption, nil); other.ID == job.ID {
		t.Error("expected unique job IDs")
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing file"},
		{StatusRendering, "rendering entries"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		// Small sleep to ensure time difference is detectable.
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("entry 3 failed")
	job.AddError("entry 7 failed")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "entry 3 failed" {
		t.Errorf("expected first error %q, got %q", "entry 3 failed", snap.Progress.Errors[0])
	}
}

func TestJob_Results(t *testing.T) {
	job := &Job{ID: "results-test", UpdatedAt: time.Now()}
	job.StartRendering(2)
	job.SetResult(1, Result{HTML: "<p>b</p>"}, true)
	job.SetResult(0, Result{HTML: "<p>a</p>"}, false)
	job.SetResult(5, Result{HTML: "ignored"}, false)

	snap := job.Snapshot()
	if snap.Status != StatusRendering {
		t.Errorf("expected status %q, got %q", StatusRendering, snap.Status)
	}
	if snap.Progress.TotalEntries != 2 || snap.Progress.EntriesRendered != 2 {
		t.Errorf("unexpected progress %+v", snap.Progress)
	}
	if snap.Progress.CacheHits != 1 {
		t.Errorf("expected 1 cache hit, got %d", snap.Progress.CacheHits)
	}
	if snap.Results != nil {
		t.Error("expected results to be withheld while rendering")
	}

	job.SetStatus(StatusCompleted, "done")
	snap = job.Snapshot()
	if len(snap.Results) != 2 || snap.Results[0].HTML != "<p>a</p>" || snap.Results[1].HTML != "<p>b</p>" {
		t.Errorf("results out of order: %+v", snap.Results)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	// Snapshot should always return non-nil errors slice.
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 job, got %d", store.Len())
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(time.Minute)

	expired := &Job{ID: "old", UpdatedAt: time.Now().Add(-2 * time.Minute)}
	store.Put(expired)
	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}
