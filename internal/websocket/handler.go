package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/dukerupert/wanderpack/internal/auth"
)

// HandleWebSocket upgrades authenticated requests and runs them as Hub
// clients of the requesting user. originPatterns limits cross-origin
// browsers; "*" accepts any origin.
func HandleWebSocket(hub *Hub, originPatterns []string, logger *slog.Logger) http.HandlerFunc {
	opts := &ws.AcceptOptions{OriginPatterns: originPatterns}
	for _, p := range originPatterns {
		if p == "*" {
			opts = &ws.AcceptOptions{InsecureSkipVerify: true}
			break
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.UserID(r.Context())
		if userID == 0 {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}

		conn, err := ws.Accept(w, r, opts)
		if err != nil {
			logger.Warn("websocket accept", "error", err)
			return
		}

		logger.Debug("websocket connected", "user_id", userID)
		NewClient(hub, conn, userID).Run(r.Context())
		logger.Debug("websocket disconnected", "user_id", userID)
	}
}
