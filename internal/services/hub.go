package services

import (
	"sync"

	"github.com/charmbracelet/log"
)

const (
	EventGallerySaved  = "gallery.saved"
	EventGalleryFailed = "gallery.failed"
)

type WSEvent struct {
	Type     string `json:"type"` // only saved/failed
	JobID    string `json:"jobId"`
	PostID   string `json:"postId,omitempty"`
	ImageUrl string `json:"imageUrl,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Hub fans save results out to connected sockets. Clients are keyed by owner
// and client id so one user cannot listen on another user's channel.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*WSClient
}

func hubKey(userID, clientID string) string {
	return userID + ":" + clientID
}

func safeCloseBytes(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func NewHub() *Hub {
	return &Hub{
		clients: map[string]*WSClient{},
	}
}

func (h *Hub) Add(c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if old, ok := h.clients[c.key]; ok && old != c {
		safeCloseBytes(old.send)
		_ = old.conn.Close()
	}

	h.clients[c.key] = c
}

// Remove drops c only while it is still the registered client for its key;
// a replaced socket must not evict its successor.
func (h *Hub) Remove(c *WSClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur, ok := h.clients[c.key]; ok && cur == c {
		delete(h.clients, c.key)
	}
	safeCloseBytes(c.send)
	_ = c.conn.Close()
}

func (h *Hub) Shutdown() {
	h.mu.Lock()
	clients := h.clients
	h.clients = map[string]*WSClient{}
	h.mu.Unlock()

	for _, c := range clients {
		safeCloseBytes(c.send)
		_ = c.conn.Close()
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// SendTo reports whether the event was handed to a live client. The send
// happens under the read lock so Remove cannot close the channel mid-send.
func (h *Hub) SendTo(key string, event WSEvent) bool {
	b, err := json.Marshal(event)
	if err != nil {
		log.With("component", "hub").Error("encode event", "err", err)
		return false
	}

	h.mu.RLock()
	c := h.clients[key]
	if c == nil {
		h.mu.RUnlock()
		return false
	}

	select {
	case c.send <- b:
		h.mu.RUnlock()
		return true
	default:
		h.mu.RUnlock()
		// slow consumer
		h.Remove(c)
		return false
	}
}
