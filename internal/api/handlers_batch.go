package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/trailimage/storyfmt/internal/pipeline"
	"github.com/trailimage/storyfmt/internal/source"
)

// maxBatchFiles caps how many uploads one batch request may carry.
const maxBatchFiles = 10

type upload struct {
	form     *multipart.Form
	maxBytes int64
}

// readUpload parses a multipart request. On failure it writes the error
// response and returns false.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (*upload, bool) {
	// Extra 1MB per file for form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, (s.cfg.MaxUploadBytes+1024*1024)*maxBatchFiles)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return nil, false
	}
	return &upload{form: r.MultipartForm, maxBytes: s.cfg.MaxUploadBytes}, true
}

// single returns the one file sent as "file".
func (u *upload) single() ([]byte, string, error) {
	defer u.form.RemoveAll()
	files := u.form.File["file"]
	if len(files) == 0 {
		return nil, "", errors.New("file is required")
	}
	return u.read(files[0])
}

func (u *upload) read(fh *multipart.FileHeader) ([]byte, string, error) {
	filename := sanitizeFilename(fh.Filename)
	if !source.IsSupportedExtension(filename) {
		return nil, filename, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, filename, errors.New("failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, u.maxBytes+1))
	if err != nil {
		return nil, filename, errors.New("failed to read file")
	}
	if int64(len(data)) > u.maxBytes {
		return nil, filename, fmt.Errorf("file exceeds max size (%d bytes)", u.maxBytes)
	}
	return data, filename, nil
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	up, ok := s.readUpload(w, r)
	if !ok {
		return
	}
	defer up.form.RemoveAll()

	mode, err := pipeline.ParseMode(r.FormValue("mode"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	files := up.form.File["files"]
	if len(files) == 0 {
		jsonError(w, "at least one file is required", http.StatusBadRequest)
		return
	}
	if len(files) > maxBatchFiles {
		jsonError(w, fmt.Sprintf("too many files (max %d)", maxBatchFiles), http.StatusBadRequest)
		return
	}

	var results []map[string]any
	for _, fh := range files {
		data, filename, err := up.read(fh)
		if err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		job := pipeline.NewJob(filename, "", mode, data)
		if err := s.orchestrator.Submit(job); err != nil {
			results = append(results, map[string]any{
				"filename": filename,
				"error":    err.Error(),
			})
			continue
		}

		results = append(results, map[string]any{
			"filename": filename,
			"job_id":   job.ID,
			"status":   pipeline.StatusQueued,
			"poll_url": fmt.Sprintf("/api/batch/%s", job.ID),
		})
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"jobs": results})
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	job := s.orchestrator.GetJob(jobID)
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, job.Snapshot())
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
