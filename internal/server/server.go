// Package server exposes the book search service over a small REST
// surface. The routing layer stays thin: request parsing, status-code
// mapping and JSON marshaling only.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/webdevtodayjason/bookpeek/internal/googlebooks"
)

// Server routes HTTP requests to the search service.
type Server struct {
	service *googlebooks.Service
	mux     *http.ServeMux
}

// New creates a server around an injected search service.
func New(service *googlebooks.Service) *Server {
	s := &Server{
		service: service,
		mux:     http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/search/books", s.handleSearchBooks)
	s.mux.HandleFunc("GET /api/search/books/advanced", s.handleAdvancedSearch)
	s.mux.HandleFunc("GET /api/search/books/author/{author}", s.handleAuthorSearch)
	s.mux.HandleFunc("GET /api/search/books/isbn/{isbn}", s.handleISBNSearch)
	s.mux.HandleFunc("GET /api/search/books/{volume_id}", s.handleBookDetails)
	s.mux.HandleFunc("GET /api/search/cache/stats", s.handleCacheStats)
	s.mux.HandleFunc("POST /api/search/cache/clear", s.handleCacheClear)
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return recoveryMiddleware(accessLogMiddleware(s.mux))
}

// ListenAndServe runs the HTTP server until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		ReadTimeout: 5 * time.Second,
		// Write timeout must exceed the upstream call timeout (30s).
		WriteTimeout: 35 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
