package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/trailimage/storyfmt/internal/cache"
	"github.com/trailimage/storyfmt/internal/config"
	"github.com/trailimage/storyfmt/internal/pipeline"
)

// Server is the HTTP API for rendering stories and captions.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	renderer     *pipeline.Renderer
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		renderer:     orch.Renderer(),
		log:          log,
		cfg:          cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey))

		r.Post("/api/story", s.handleText(cache.ModeStory))
		r.Post("/api/caption", s.handleText(cache.ModeCaption))
		r.Post("/api/render", s.handleRender)

		r.Post("/api/batch", s.handleBatch)
		r.Get("/api/batch/{jobID}", s.handleBatchStatus)

		r.Get("/api/stats/render", s.handleRenderStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
