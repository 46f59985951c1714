package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"
)

var errInvalidLimit = errors.New("limit must be between 1 and 200")

// handleWake queues a wake event, interrupting any in-progress speech.
// The optional body names the source; it defaults to "api".
func (s *Server) handleWake(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Source string `json:"source"`
	}
	if r.Body != nil {
		// A missing or malformed body is fine, the source just defaults.
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	if body.Source == "" {
		body.Source = "api"
	}

	s.wake.Trigger(body.Source)
	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "queued", "source": body.Source})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.profile.Snapshot()
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"uptime_seconds":    int(time.Since(s.started).Seconds()),
		"profile_complete":  s.profile.IsComplete(),
		"interaction_count": snap.InteractionCount,
		"commands":          s.table.Len(),
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.profile.Snapshot())
}

func (s *Server) handleCommands(w http.ResponseWriter, r *http.Request) {
	type aliasEntry struct {
		Alias  string `json:"alias"`
		Intent string `json:"intent"`
	}
	aliases := make([]aliasEntry, 0)
	for _, pair := range s.table.Aliases() {
		aliases = append(aliases, aliasEntry{Alias: pair[0], Intent: pair[1]})
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"intents": s.table.Intents(),
		"aliases": aliases,
	})
}

func (s *Server) handleTurns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			s.errorResponse(w, http.StatusBadRequest, errInvalidLimit)
			return
		}
		limit = n
	}

	turns, err := s.turns.RecentTurns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, turns)
}
