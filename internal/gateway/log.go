package gateway

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/coder/websocket"
)

// handleLogSnapshot returns the in-memory debug ring, oldest first.
func (g *Gateway) handleLogSnapshot() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if g.ring == nil {
			http.Error(w, "debug log not available", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, g.ring.Snapshot())
	}
}

// handleLogStream upgrades to a websocket and streams debug entries as
// they are produced. One JSON entry per text message.
func (g *Gateway) handleLogStream() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if g.hub == nil {
			http.Error(w, "debug log not available", http.StatusServiceUnavailable)
			return
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			g.logger.Warn("log stream accept failed", "error", err)
			return
		}
		defer func() {
			_ = conn.Close(websocket.StatusInternalError, "unexpected close")
		}()

		entries, cancel := g.hub.Subscribe()
		defer cancel()

		// Reads are only needed to notice the peer going away.
		ctx := conn.CloseRead(r.Context())

		for {
			select {
			case <-ctx.Done():
				_ = conn.Close(websocket.StatusNormalClosure, "client disconnected")
				return
			case entry, ok := <-entries:
				if !ok {
					_ = conn.Close(websocket.StatusGoingAway, "server shutting down")
					return
				}
				data, err := json.Marshal(entry)
				if err != nil {
					g.logger.Error("log stream marshal failed", "error", err)
					continue
				}
				if err := g.writeEntry(ctx, conn, data); err != nil {
					return
				}
			}
		}
	}
}

func (g *Gateway) writeEntry(ctx context.Context, conn *websocket.Conn, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, g.config.WriteTimeout)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data)
}
