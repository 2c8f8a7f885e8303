package pipeline

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/trailimage/storyfmt/internal/cache"
	"github.com/trailimage/storyfmt/internal/format"
	"github.com/trailimage/storyfmt/internal/stats"
)

// Renderer runs the formatter behind the optional render cache and records
// latency. A nil cache or stats is allowed.
type Renderer struct {
	formatter *format.Formatter
	cache     *cache.Cache
	stats     *stats.Render
	log       *slog.Logger
}

func NewRenderer(f *format.Formatter, c *cache.Cache, st *stats.Render, log *slog.Logger) *Renderer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Renderer{formatter: f, cache: c, stats: st, log: log}
}

// ParseMode maps a request value to a cache mode. Empty means story.
func ParseMode(s string) (cache.Mode, error) {
	switch cache.Mode(s) {
	case "", cache.ModeStory:
		return cache.ModeStory, nil
	case cache.ModeCaption:
		return cache.ModeCaption, nil
	}
	return "", fmt.Errorf("unknown mode %q (want story or caption)", s)
}

// Render formats text in the given mode. Cache failures are logged and fall
// through to the formatter. cached reports whether the HTML came from the
// cache.
func (r *Renderer) Render(mode cache.Mode, text string) (html string, cached bool) {
	start := time.Now()

	if r.cache != nil {
		h, ok, err := r.cache.Get(mode, text)
		if err != nil {
			r.log.Warn("cache read failed", "mode", mode, "error", err)
		} else if ok {
			r.record(start, true)
			return h, true
		}
	}

	if mode == cache.ModeCaption {
		html = r.formatter.Caption(text)
	} else {
		html = r.formatter.Story(text)
	}
	r.record(start, false)

	if r.cache != nil {
		if err := r.cache.Put(mode, text, html); err != nil {
			r.log.Warn("cache write failed", "mode", mode, "error", err)
		}
	}
	return html, false
}

// Stats returns the latency tracker, which may be nil.
func (r *Renderer) Stats() *stats.Render {
	return r.stats
}

func (r *Renderer) record(start time.Time, cached bool) {
	if r.stats != nil {
		r.stats.Record(time.Since(start), cached)
	}
}
