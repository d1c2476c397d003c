// Package api provides the OpenRedline REST API server: diff computation,
// snapshot storage and live progress over WebSocket.
package api

import (
	"fmt"
	"net/http"

	"github.com/openredline/redline/core/store"
	"github.com/openredline/redline/internal/logging"
)

// Server wires the snapshot store and the WebSocket hub to HTTP routes.
type Server struct {
	cfg   Config
	store *store.Store
	hub   *Hub
}

// New creates a server over an open store.
func New(cfg Config, st *store.Store) *Server {
	return &Server{cfg: cfg, store: st, hub: NewHub()}
}

// Start opens the store if needed and serves until the listener fails.
func Start(cfg Config) error {
	st, err := store.Open(cfg.StorePath)
	if err != nil {
		return err
	}
	defer st.Close()

	srv := New(cfg, st)
	go srv.hub.Run()

	logging.ServerStartup("rest_api", "http", cfg.Port,
		"websocket_protocol", "ws",
		"store_path", cfg.StorePath)

	addr := fmt.Sprintf(":%d", cfg.Port)
	return http.ListenAndServe(addr, srv.Handler())
}

// Handler returns the complete middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/diff", s.handleDiff)
	mux.HandleFunc("/snapshots", s.handleSnapshots)
	mux.HandleFunc("/snapshots/", s.handleSnapshotByLabel)
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/runs/", s.handleRunByID)
	mux.HandleFunc("/ws", s.handleWebSocket)

	var handler http.Handler = mux
	handler = s.corsMiddleware(handler)
	handler = logging.CombinedMiddleware(handler)
	return handler
}

// corsMiddleware applies the configured origin policy. An empty allowlist
// permits every origin.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if s.originAllowed(origin) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) originAllowed(origin string) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, allowed := range s.cfg.AllowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}
