package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"hotelguru/internal/domain"
	"hotelguru/internal/observability"
)

// MessageTypeSession tags session snapshot frames
const MessageTypeSession = "session"

// SessionMessage is the frame pushed to feed subscribers on every session
// change. Tokens never leave the process; only the derived flag does.
type SessionMessage struct {
	Type          string         `json:"type"`
	Authenticated bool           `json:"authenticated"`
	Session       domain.Session `json:"session"`
}

// Hub fans session snapshots out to every connected feed client
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client

	// Shutdown signal
	done chan struct{}

	lastMu sync.RWMutex
	last   []byte

	count atomic.Int64
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run(ctx context.Context) error {
	defer h.shutdown()

	for {
		select {
		case <-ctx.Done():
			slog.Info("hub shutting down gracefully")
			return ctx.Err()

		case client := <-h.register:
			h.clients[client] = true
			h.count.Add(1)
			observability.WebSocketConnectionsActive.Inc()
			slog.Debug("feed client registered", slog.String("remote_addr", client.remoteAddr))

			// New subscribers start from the current state
			if last := h.Last(); last != nil {
				h.deliver(client, last)
			}

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			for client := range h.clients {
				h.deliver(client, message)
			}
		}
	}
}

// deliver queues message for client, dropping a client whose buffer is full
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
		observability.WebSocketMessagesSent.Inc()
	default:
		slog.Warn("feed client too slow, disconnecting", slog.String("remote_addr", client.remoteAddr))
		h.unregisterClient(client)
	}
}

// unregisterClient safely removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.count.Add(-1)
		observability.WebSocketConnectionsActive.Dec()
		slog.Debug("feed client unregistered", slog.String("remote_addr", client.remoteAddr))
	}
}

// shutdown performs graceful cleanup of all connections
func (h *Hub) shutdown() {
	close(h.done)

	for client := range h.clients {
		h.unregisterClient(client)
	}

	slog.Info("hub shutdown complete")
}

// PublishSession records s as the current snapshot and broadcasts it. It
// never blocks, so it is safe to call from a session observer.
func (h *Hub) PublishSession(s domain.Session) {
	data, err := json.Marshal(SessionMessage{
		Type:          MessageTypeSession,
		Authenticated: s.IsAuthenticated(),
		Session:       s,
	})
	if err != nil {
		slog.Error("failed to marshal session snapshot", slog.String("error", err.Error()))
		return
	}

	h.lastMu.Lock()
	h.last = data
	h.lastMu.Unlock()

	h.Broadcast(data)
}

// Last returns the most recently published snapshot, or nil
func (h *Hub) Last() []byte {
	h.lastMu.RLock()
	defer h.lastMu.RUnlock()
	return h.last
}

// Broadcast queues message for every client. When the queue is full the
// message is dropped; a later snapshot supersedes it anyway.
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	default:
		slog.Warn("session feed queue full, dropping snapshot")
	}
}

// Register registers a client with the hub. It returns false once the hub
// has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected feed clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}
