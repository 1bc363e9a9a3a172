package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestTimeout leaves room for one model call per request.
const RequestTimeout = 30 * time.Second

// Server is the chi router every wanderbot route hangs off.
type Server struct {
	mux    *chi.Mux
	logger zerolog.Logger
}

// New builds the router with the shared middleware chain. Observe sits
// outside Recoverer and Timeout so panics and timeouts are still logged.
func New() *Server {
	s := &Server{mux: chi.NewRouter(), logger: log.Logger}
	s.mux.Use(
		chimw.RealIP,
		chimw.RequestID,
		Observe(s.logger),
		chimw.Recoverer,
		Timeout(RequestTimeout),
	)
	return s
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount adds a handler outside the /v1 tree, such as /metrics.
func (s *Server) Mount(path string, h http.Handler) { s.mux.Handle(path, h) }
