package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/coverdoc/internal/config"
	"github.com/dgallion1/coverdoc/internal/service"
)

// Server is the HTTP API server for coverdoc.
type Server struct {
	router chi.Router
	svc    *service.Service
	log    *slog.Logger
	cfg    config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(svc *service.Service, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		svc: svc,
		log: log,
		cfg: cfg,
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
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/classify", s.handleClassify)
		r.Post("/api/classify/pages", s.handleClassifyPages)
		r.Post("/api/segment", s.handleSegment)
		r.Post("/api/structure", s.handleStructure)
		r.Post("/api/items", s.handleItems)
		r.Post("/api/feedback", s.handleFeedback)
		r.Post("/api/split", s.handleSplit)

		r.Post("/api/extract", s.handleExtract)
		r.Post("/api/extract/batch", s.handleExtractBatch)

		r.Get("/api/stats", s.handleStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
