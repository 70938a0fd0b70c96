// Package server provides the HTTP server for the drawing UI.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/export"
	"github.com/ayusman/airsketch/internal/server/api"
	"github.com/ayusman/airsketch/internal/store"
)

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       *app.App
}

// Server represents the HTTP server.
type Server struct {
	config    Config
	mux       *http.ServeMux
	start     time.Time
	landmarks *LandmarksHandler
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	if a := s.config.App; a != nil {
		s.mux.Handle("/api/status", api.NewStatusHandler(a))
		s.mux.Handle("/api/commands", api.NewCommandHandler(a))
		s.mux.Handle("/api/export", api.NewDownloadHandler(a))
		s.mux.HandleFunc("/api/canvas", s.handleCanvas)
		s.mux.Handle("/api/stream", NewStreamHandler(a))

		s.landmarks = NewLandmarksHandler(a)
		a.OnEffects(s.landmarks.Publish)
		s.mux.Handle("/api/landmarks", s.landmarks)
	}

	if s.config.Store != nil {
		exportLog := api.NewExportLogHandler(s.config.Store)
		s.mux.Handle("/api/exports", exportLog)
		s.mux.Handle("/api/exports/", exportLog)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// handleCanvas serves the live layer stack as seen on screen: ink, template
// overlay and fingertip indicator, unmirrored and without a background.
func (s *Server) handleCanvas(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	img := s.config.App.Session().Composite()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	if err := export.Encode(w, img); err != nil {
		slog.Warn("failed to write canvas", "error", err)
	}
}

// Close disconnects WebSocket clients.
func (s *Server) Close() {
	if s.landmarks != nil {
		s.landmarks.Close()
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
