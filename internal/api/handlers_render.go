package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/trailimage/storyfmt/internal/cache"
	"github.com/trailimage/storyfmt/internal/pipeline"
	"github.com/trailimage/storyfmt/internal/source"
)

type textRequest struct {
	Text string `json:"text"`
}

type textResponse struct {
	HTML   string `json:"html"`
	Cached bool   `json:"cached"`
}

// handleText renders a JSON {"text": ...} body in the given mode.
func (s *Server) handleText(mode cache.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

		var req textRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				jsonError(w, fmt.Sprintf("body exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
				return
			}
			jsonError(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
			return
		}

		html, cached := s.renderer.Render(mode, req.Text)
		writeJSON(w, http.StatusOK, textResponse{HTML: html, Cached: cached})
	}
}

// handleRender parses one uploaded file and renders every entry in it
// before responding.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	data, filename, err := up.single()
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	mode, err := pipeline.ParseMode(r.FormValue("mode"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := source.ForFile(filename)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	doc, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		s.log.Warn("parse failed", "filename", filename, "error", err)
		jsonError(w, "parse: "+err.Error(), http.StatusUnprocessableEntity)
		return
	}

	entries := make([]pipeline.Result, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		html, _ := s.renderer.Render(mode, e.Text)
		entries = append(entries, pipeline.Result{Title: e.Title, Page: e.Page, HTML: html})
	}

	title := r.FormValue("title")
	if title == "" {
		title = doc.Title
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"filename": filename,
		"title":    title,
		"mode":     mode,
		"entries":  entries,
	})
}
