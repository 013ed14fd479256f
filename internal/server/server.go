package server

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ja7ad/drinkrisk/pkg/risk"
	"github.com/ja7ad/drinkrisk/pkg/session"
)

// Server exposes the risk model and in-memory sessions over HTTP/JSON.
type Server struct {
	model    *risk.Model
	defaults risk.Inputs
	log      *slog.Logger
	router   chi.Router

	mu       sync.RWMutex
	sessions map[uuid.UUID]*entry
}

// entry serializes all access to one session.
type entry struct {
	mu sync.Mutex
	s  *session.Session
}

// New creates a new Server with all routes configured.
func New(model *risk.Model, defaults risk.Inputs, log *slog.Logger) *Server {
	if model == nil {
		model = risk.New(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		model:    model,
		defaults: defaults,
		log:      log,
		router:   chi.NewRouter(),
		sessions: make(map[uuid.UUID]*entry),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/api/v1/config", s.handleConfig)
	s.router.Post("/api/v1/compute", s.handleCompute)

	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)
			r.Patch("/inputs", s.handleUpdateInputs)
			r.Post("/units", s.handleUnits)
			r.Post("/alert/dismiss", s.handleDismissAlert)
		})
	})
}

func (s *Server) lookup(id uuid.UUID) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	return e, ok
}

func (s *Server) add(sess *session.Session) uuid.UUID {
	id := uuid.New()
	s.mu.Lock()
	s.sessions[id] = &entry{s: sess}
	s.mu.Unlock()
	return id
}

func (s *Server) remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// Len returns the number of live sessions.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
