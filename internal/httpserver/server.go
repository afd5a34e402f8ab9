package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Server is barqctl's operational HTTP surface — not a product API. It
// exposes liveness/readiness, a coverage snapshot and the cycle history for
// external monitoring, in the teacher's http.Server + middleware.Chain
// shape (cmd/server/main.go).
type Server struct {
	httpServer *http.Server
	log        zerolog.Logger
}

// Deps bundles the collaborators the server's handlers read from. All
// methods return plain data (no *grid.Report import here) to keep this
// package decoupled from the engine's internal types; New takes closures
// instead of an interface so callers can wire any orchestrator shape.
type Deps struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Logger       zerolog.Logger

	// Coverage returns the current grid coverage report (any JSON-marshalable
	// value); History returns the rolling rebalance-cycle history.
	Coverage func() any
	History  func() any
	Ready    func() error
}

// New builds a Server. Ready may be nil, meaning /readyz always succeeds.
func New(deps Deps) *Server {
	log := deps.Logger

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if deps.Ready != nil {
			if err := deps.Ready(); err != nil {
				writeError(w, http.StatusServiceUnavailable, err.Error())
				return
			}
		}
		writeSuccess(w, map[string]string{"status": "ready"})
	})
	mux.HandleFunc("GET /coverage", func(w http.ResponseWriter, r *http.Request) {
		if deps.Coverage == nil {
			writeError(w, http.StatusNotImplemented, "coverage snapshot not wired")
			return
		}
		writeSuccess(w, deps.Coverage())
	})
	mux.HandleFunc("GET /history", func(w http.ResponseWriter, r *http.Request) {
		if deps.History == nil {
			writeError(w, http.StatusNotImplemented, "history not wired")
			return
		}
		writeSuccess(w, deps.History())
	})

	handler := Chain(mux, Logging(log), Recovery(log))

	addr := deps.Addr
	if addr == "" {
		addr = ":8090"
	}
	readTimeout := deps.ReadTimeout
	if readTimeout <= 0 {
		readTimeout = 5 * time.Second
	}
	writeTimeout := deps.WriteTimeout
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		log: log,
	}
}

// ListenAndServe blocks serving HTTP until the server errors or is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests within ctx's deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
