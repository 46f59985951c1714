package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsMessage is the envelope pushed to websocket clients.
type wsMessage struct {
	Type string `json:"type"` // "turns"
	Data any    `json:"data"`
}

// handleWebSocket streams finished turns to the client. Inbound messages
// with type "wake" queue a wake event; everything else is ignored.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade websocket", "error", err)
		return
	}
	defer ws.Close()

	done := make(chan struct{})
	updates := s.turns.Subscribe()

	// Send the current tail so the client starts with context.
	if err := s.pushRecentTurns(ws, r); err != nil {
		slog.Error("Failed initial turn sync", "error", err)
		return
	}

	// Writer goroutine: pushes new turns as the pipeline logs them.
	go func() {
		defer ws.Close()

		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-done:
				return
			case <-updates:
				if err := s.pushRecentTurns(ws, r); err != nil {
					slog.Error("Failed turn sync", "error", err)
					return
				}
			case <-ticker.C:
				if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			}
		}
	}()

	// Reader loop: wake triggers from the client.
	for {
		var msg struct {
			Type   string `json:"type"`
			Source string `json:"source"`
		}
		if err := ws.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Error("WebSocket read error", "error", err)
			}
			break
		}
		if msg.Type == "wake" {
			source := msg.Source
			if source == "" {
				source = "websocket"
			}
			s.wake.Trigger(source)
		}
	}
	close(done)
}

func (s *Server) pushRecentTurns(ws *websocket.Conn, r *http.Request) error {
	turns, err := s.turns.RecentTurns(r.Context(), 20)
	if err != nil {
		return err
	}
	return ws.WriteJSON(wsMessage{Type: "turns", Data: turns})
}
