// Package server provides the HTTP server for airdraw: the control API, the
// MJPEG preview and the live state socket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ayusman/airdraw/internal/server/api"
	"github.com/ayusman/airdraw/internal/store"
)

// Controller is everything the server needs from the running application.
type Controller interface {
	api.Engine
	FrameSource
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	App       Controller
	// EventInterval is the state broadcast period. Zero means DefaultEventInterval.
	EventInterval time.Duration
}

// Server represents the HTTP server for the airdraw application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
	events *EventsHandler
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

	if s.config.Store != nil {
		var engine api.Engine
		if s.config.App != nil {
			engine = s.config.App
		}
		colors := api.NewColorHandler(s.config.Store, engine)
		s.mux.Handle("/api/colors", colors)
		s.mux.Handle("/api/colors/", colors)

		settings := api.NewSettingsHandler(s.config.Store)
		s.mux.Handle("/api/settings", settings)
		s.mux.Handle("/api/settings/", settings)
	}

	if s.config.App != nil {
		canvas := api.NewCanvasHandler(s.config.App)
		s.mux.Handle("/api/canvas", canvas)
		s.mux.Handle("/api/canvas/", canvas)

		s.mux.Handle("/api/stream", NewStreamHandler(s.config.App))

		s.events = NewEventsHandler(s.config.App, s.config.EventInterval)
		s.mux.Handle("/api/events", s.events)
	}

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

	response := map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.start).String(),
	}
	if s.config.App != nil {
		response["tracking"] = s.config.App.IsEnabled()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// Run serves on addr until ctx is done, then shuts down gracefully. The
// state broadcaster runs for the same lifetime.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.events != nil {
		go s.events.Run(ctx)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
	defer done()
	if s.events != nil {
		s.events.CloseAll()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
