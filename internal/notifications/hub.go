package notifications

import (
	"context"
	"errors"
	"log"
	"sync"

	"alcove/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	// Max connections per post per user is not enforced; these bound the hub.
	maxConnsPerPost = 512
	maxTotalConns   = 10000
)

// Hub fans discussion change events out to websocket watchers, mapping
// postID to the set of connected clients. Events arrive from the notifier's
// pattern subscriber so one Redis subscription serves every connection.
type Hub struct {
	mu         sync.RWMutex
	conns      map[uint]map[*Client]struct{}
	totalConns int
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[uint]map[*Client]struct{}),
	}
}

// Register adds a watcher for the given post.
func (h *Hub) Register(postID, userID uint, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[postID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[postID] = m
	}
	if len(m) >= maxConnsPerPost {
		return nil, errors.New("post connection limit reached")
	}

	client := newClient(h, conn, postID, userID)
	m[client] = struct{}{}
	h.totalConns++
	observability.WebSocketConnectionsTotal.Inc()

	return client, nil
}

// UnregisterClient removes a watcher; safe to call for an absent client.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	m, ok := h.conns[client.PostID]
	if !ok {
		return
	}
	if _, exists := m[client]; !exists {
		return
	}
	delete(m, client)
	h.totalConns--
	observability.WebSocketConnectionsTotal.Dec()
	if len(m) == 0 {
		delete(h.conns, client.PostID)
	}
}

// BroadcastPost sends the event to every watcher of the post.
func (h *Hub) BroadcastPost(postID uint, event string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.conns[postID]; ok {
		data := []byte(event)
		for c := range clients {
			c.TrySend(data)
		}
	}
}

// WatcherCount returns the number of connections watching the post.
func (h *Hub) WatcherCount(postID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[postID])
}

// StartWiring connects the notifier's pattern subscriber to this hub.
func (h *Hub) StartWiring(ctx context.Context, n *Notifier) error {
	return n.StartPatternSubscriber(ctx, func(postID uint, event string) {
		h.BroadcastPost(postID, event)
	})
}

// Shutdown closes every websocket connection gracefully.
func (h *Hub) Shutdown(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for postID, clients := range h.conns {
		for client := range clients {
			if client.Conn == nil {
				continue
			}
			if err := client.Conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "Server shutting down")); err != nil {
				log.Printf("failed to write close message for post %d: %v", postID, err)
			}
			if err := client.Conn.Close(); err != nil {
				log.Printf("failed to close websocket for post %d: %v", postID, err)
			}
			observability.WebSocketConnectionsTotal.Dec()
		}
	}
	h.conns = make(map[uint]map[*Client]struct{})
	h.totalConns = 0
	return nil
}
