package handler

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"hotelguru/internal/middleware"
	"hotelguru/internal/observability"
	ws "hotelguru/internal/websocket"
)

// SessionFeed upgrades GET /ws/session into a subscriber of the hub. Browser
// origins must be in allowedOrigins; clients sending no Origin are let in.
func SessionFeed(hub *ws.Hub, allowedOrigins []string) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || middleware.OriginAllowed(allowedOrigins, origin)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			// Upgrade already answered the client
			observability.FromContext(r.Context()).Warn("websocket upgrade failed",
				slog.String("error", err.Error()))
			return
		}

		client := ws.NewClient(hub, conn)
		if !hub.Register(client) {
			_ = conn.Close()
			return
		}

		go client.WritePump()
		go client.ReadPump()
	}
}
