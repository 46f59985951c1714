// Package server exposes the assistant over HTTP: wake triggering, status,
// profile and command inspection, and a websocket that streams finished
// turns to connected clients.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/Ranojay1/LocalAssistant/pkg/actions"
	"github.com/Ranojay1/LocalAssistant/pkg/profile"
	"github.com/Ranojay1/LocalAssistant/pkg/store"
	"github.com/Ranojay1/LocalAssistant/pkg/wake"
)

// Server serves the REST API and websocket for the assistant.
type Server struct {
	wake    *wake.Queue
	profile *profile.Store
	table   *actions.Table
	turns   store.TurnLog
	started time.Time
	srv     *http.Server
}

// New creates a new Server.
func New(wakeQueue *wake.Queue, prof *profile.Store, table *actions.Table, turns store.TurnLog) *Server {
	return &Server{
		wake:    wakeQueue,
		profile: prof,
		table:   table,
		turns:   turns,
		started: time.Now(),
	}
}

// Start starts the HTTP server. Blocks until the listener fails or the
// server is shut down.
func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()
	s.routes(mux)

	s.srv = &http.Server{
		Addr:    addr,
		Handler: s.corsMiddleware(mux),
	}

	slog.Info("Starting API server", "addr", addr)
	return s.srv.ListenAndServe()
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/wake", s.handleWake)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/profile", s.handleProfile)
	mux.HandleFunc("GET /api/commands", s.handleCommands)
	mux.HandleFunc("GET /api/turns", s.handleTurns)

	mux.HandleFunc("/api/ws", s.handleWebSocket)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, err error) {
	slog.Error("API Error", "error", err)
	s.jsonResponse(w, status, map[string]string{"error": err.Error()})
}
