package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trailimage/storyfmt/internal/cache"
)

// JobStatus represents the state of a batch render job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusParsing   JobStatus = "parsing"
	StatusRendering JobStatus = "rendering"
	StatusCompleted JobStatus = "completed"
	StatusFailed    JobStatus = "failed"
	StatusPartial   JobStatus = "partial"
)

// Job tracks the state of a single uploaded file.
type Job struct {
	mu sync.Mutex

	ID string `json:"job_id"`

	Status   JobStatus  `json:"status"`
	Phase    string     `json:"phase"`
	Filename string     `json:"filename"`
	Title    string     `json:"title"`
	Mode     cache.Mode `json:"mode"`

	Progress Progress `json:"progress"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Internal: not serialized.
	fileData []byte
	results  []Result
	errors   []string
}

// Progress tracks processing progress.
type Progress struct {
	TotalEntries    int      `json:"total_entries"`
	EntriesRendered int      `json:"entries_rendered"`
	CacheHits       int      `json:"cache_hits"`
	Errors          []string `json:"errors"`
}

// Result is the rendered form of one source entry.
type Result struct {
	Title string `json:"title,omitempty"`
	Page  int    `json:"page,omitempty"`
	HTML  string `json:"html,omitempty"`
	Error string `json:"error,omitempty"`
}

// NewJob creates a queued job for an uploaded file.
func NewJob(filename, title string, mode cache.Mode, data []byte) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		Title:     title,
		Mode:      mode,
		CreatedAt: now,
		UpdatedAt: now,
		fileData:  data,
	}
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
		ttl:  ttl,
	}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Len returns the number of tracked jobs.
func (s *JobStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes expired jobs.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		expired := now.Sub(job.UpdatedAt) > s.ttl
		job.mu.Unlock()
		if expired {
			delete(s.jobs, id)
		}
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus, phase string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.Phase = phase
	j.UpdatedAt = time.Now()
}

// AddError records an error.
func (j *Job) AddError(err string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.errors = append(j.errors, err)
	j.Progress.Errors = j.errors
	j.UpdatedAt = time.Now()
}

// SetTitle replaces the title, usually with the one found in the file.
func (j *Job) SetTitle(title string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Title = title
}

// StartRendering sizes the result list for n entries.
func (j *Job) StartRendering(n int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Progress.TotalEntries = n
	j.results = make([]Result, n)
	j.Status = StatusRendering
	j.Phase = "rendering"
	j.UpdatedAt = time.Now()
}

// SetResult stores the result for entry i.
func (j *Job) SetResult(i int, r Result, cached bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if i < 0 || i >= len(j.results) {
		return
	}
	j.results[i] = r
	j.Progress.EntriesRendered++
	if cached {
		j.Progress.CacheHits++
	}
	j.UpdatedAt = time.Now()
}

// FileData returns the raw file bytes.
func (j *Job) FileData() []byte {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.fileData
}

// releaseFile drops the upload once it has been parsed.
func (j *Job) releaseFile() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.fileData = nil
}

// JobSnapshot is a read-only, JSON-safe copy of job state.
type JobSnapshot struct {
	ID       string     `json:"job_id"`
	Status   JobStatus  `json:"status"`
	Phase    string     `json:"phase"`
	Filename string     `json:"filename"`
	Title    string     `json:"title"`
	Mode     cache.Mode `json:"mode"`
	Progress Progress   `json:"progress"`
	Results  []Result   `json:"results,omitempty"`
}

// Snapshot returns a JSON-safe copy of the job state. Results are included
// once the job has finished.
func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	errs := append([]string{}, j.Progress.Errors...)
	snap := JobSnapshot{
		ID:       j.ID,
		Status:   j.Status,
		Phase:    j.Phase,
		Filename: j.Filename,
		Title:    j.Title,
		Mode:     j.Mode,
		Progress: Progress{
			TotalEntries:    j.Progress.TotalEntries,
			EntriesRendered: j.Progress.EntriesRendered,
			CacheHits:       j.Progress.CacheHits,
			Errors:          errs,
		},
	}
	switch j.Status {
	case StatusCompleted, StatusPartial, StatusFailed:
		snap.Results = append([]Result(nil), j.results...)
	}
	return snap
}
