// Package server exposes the extraction pipeline over HTTP.
package server

import (
	"log/slog"
	"net/http"
)

// DefaultMaxUploadBytes is the upload ceiling when none is configured
const DefaultMaxUploadBytes = 10 << 20

// Server handles HTTP requests for statement extraction
type Server struct {
	service        *Service
	maxUploadBytes int64
	mux            *http.ServeMux
}

// Options configures a Server
type Options struct {
	MaxUploadBytes int64 // 0 uses DefaultMaxUploadBytes
}

// NewServer creates a new Server with default mux
func NewServer(service *Service, opts Options) *Server {
	return NewServerWithMux(service, opts, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(service *Service, opts Options, mux *http.ServeMux) *Server {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	s := &Server{
		service:        service,
		maxUploadBytes: opts.MaxUploadBytes,
		mux:            mux,
	}
	s.registerRoutes()
	return s
}

// corsMiddleware adds CORS headers to every response and answers preflight requests
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		setCORSHeaders(w)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// logRequests logs method and path of every request
func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("Request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

// setCORSHeaders sets CORS headers on a response
func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Max-Age", "3600")
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)

	s.mux.HandleFunc("POST /api/process-pdf", s.handleProcessPDF)

	s.mux.HandleFunc("GET /api/statements/{id}", s.handleGetStatement)
	s.mux.HandleFunc("DELETE /api/statements/{id}", s.handleDeleteStatement)
	s.mux.HandleFunc("GET /api/statements", s.handleListStatements)

	// Catch-all, registered last
	s.mux.HandleFunc("/", s.handleNotFound)
}

// Handler returns the mux wrapped with CORS and request logging
func (s *Server) Handler() http.Handler {
	return logRequests(corsMiddleware(s.mux))
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	slog.Info("Starting server", "address", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Handler().ServeHTTP(w, r)
}
