package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/trailimage/storyfmt/internal/source"
)

// Worker processes a single uploaded file.
type Worker struct {
	renderer *Renderer
	log      *slog.Logger

	maxConcurrentRender int
}

func NewWorker(r *Renderer, log *slog.Logger, maxRender int) *Worker {
	if maxRender < 1 {
		maxRender = 1
	}
	return &Worker{
		renderer:            r,
		log:                 log,
		maxConcurrentRender: maxRender,
	}
}

// Process parses the job's file and renders every entry in it.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "filename", job.Filename)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := source.ForFile(job.Filename)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.AddError(err.Error())
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	doc, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	job.releaseFile()
	if err != nil {
		log.Error("parse failed", "error", err)
		job.AddError(fmt.Sprintf("parse: %s", err))
		job.SetStatus(StatusFailed, "parsing")
		return
	}
	if job.Title == "" {
		job.SetTitle(doc.Title)
	}

	if len(doc.Entries) == 0 {
		log.Warn("no entries found")
		job.AddError("no renderable text")
		job.SetStatus(StatusFailed, "parsing")
		return
	}

	// Phase 2: Render entries with bounded concurrency.
	job.StartRendering(len(doc.Entries))
	log.Info("rendering", "entries", len(doc.Entries), "mode", job.Mode)

	type entryResult struct {
		idx    int
		res    Result
		cached bool
		err    error
	}
	results := make(chan entryResult, len(doc.Entries))
	sem := make(chan struct{}, w.maxConcurrentRender)

	for i, entry := range doc.Entries {
		sem <- struct{}{}
		go func(i int, entry *source.Entry) {
			defer func() { <-sem }()
			res := Result{Title: entry.Title, Page: entry.Page}
			if err := ctx.Err(); err != nil {
				results <- entryResult{idx: i, res: res, err: err}
				return
			}
			html, cached, err := w.renderEntry(job, entry.Text)
			res.HTML = html
			results <- entryResult{idx: i, res: res, cached: cached, err: err}
		}(i, entry)
	}

	failed := 0
	for range doc.Entries {
		r := <-results
		if r.err != nil {
			log.Error("render failed", "entry", r.idx, "error", r.err)
			job.AddError(fmt.Sprintf("entry %d: %s", r.idx, r.err))
			r.res.Error = r.err.Error()
			failed++
		}
		job.SetResult(r.idx, r.res, r.cached)
	}

	log.Info("render complete", "entries", len(doc.Entries), "failed", failed)

	switch {
	case failed == len(doc.Entries):
		job.SetStatus(StatusFailed, "rendering")
	case failed > 0:
		job.SetStatus(StatusPartial, "done")
	default:
		job.SetStatus(StatusCompleted, "done")
	}
}

// renderEntry turns a formatter panic into an entry error so one bad entry
// cannot take down the worker.
func (w *Worker) renderEntry(job *Job, text string) (html string, cached bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()
	html, cached = w.renderer.Render(job.Mode, text)
	return html, cached, nil
}
