// Package httpapi serves the request envelope over HTTP.
//
// Routes:
//
//	POST /v1/requests   one envelope in, NDJSON frames and response out
//	GET  /v1/commands   supported commands
//	GET  /healthz       liveness
//	GET  /metrics       Prometheus exposition, when a handler is given
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
	"github.com/custodia-labs/empire-ledger/internal/core/ports/driving"
	"github.com/custodia-labs/empire-ledger/internal/logger"
)

// ContentTypeNDJSON is the media type of envelope responses.
const ContentTypeNDJSON = "application/x-ndjson"

// MaxBodyBytes bounds a request body.
const MaxBodyBytes = 1 << 20

// Server exposes a dispatcher over HTTP.
type Server struct {
	dispatcher driving.Dispatcher
	router     chi.Router
}

// NewServer builds the router. metrics may be nil.
func NewServer(dispatcher driving.Dispatcher, metrics http.Handler) *Server {
	s := &Server{dispatcher: dispatcher}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/requests", s.handleRequest)
		r.Get("/commands", s.handleCommands)
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http: listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleCommands(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string][]string{"commands": s.dispatcher.Commands()})
}

func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	var req domain.Request
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, &domain.SerializationError{Msg: "decode request", Err: err})
		return
	}

	w.Header().Set("Content-Type", ContentTypeNDJSON)
	w.WriteHeader(http.StatusOK)
	out := newLineWriter(w)

	resp := s.dispatcher.Dispatch(r.Context(), req, func(frame domain.StreamFrame) error {
		return out.write(frame)
	})
	if err := out.write(resp); err != nil {
		logger.Debug("http: write response %s: %v", resp.RequestID, err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", ContentTypeNDJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&domain.Response{OK: false, Error: domain.NewErrorBody(err)})
}

// lineWriter writes JSON lines and flushes each one so frames reach the
// client as they are produced.
type lineWriter struct {
	mu      sync.Mutex
	enc     *json.Encoder
	flusher http.Flusher
}

func newLineWriter(w http.ResponseWriter) *lineWriter {
	flusher, _ := w.(http.Flusher)
	return &lineWriter{enc: json.NewEncoder(w), flusher: flusher}
}

func (l *lineWriter) write(v any) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.enc.Encode(v); err != nil {
		return err
	}
	if l.flusher != nil {
		l.flusher.Flush()
	}
	return nil
}
