// Package wshub holds the API process's websocket connection registry. The
// registry is process-local; routing pushes to connections hosted on other
// instances is the backplane's job, not ours.
package wshub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/codearena/backend/logger"
	"github.com/google/uuid"
	"nhooyr.io/websocket"
)

const writeTimeout = 5 * time.Second

// EventConnected is the first frame every client receives; its payload
// carries the connection id the client puts into submission requests.
const EventConnected = "connected"

var ErrConnectionNotFound = errors.New("connection not found")

// frame is the envelope of every pushed message.
type frame struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

type sender interface {
	send(ctx context.Context, data []byte) error
}

type wsSender struct {
	c *websocket.Conn
}

func (s *wsSender) send(ctx context.Context, data []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	return s.c.Write(ctx, websocket.MessageText, data)
}

type Hub struct {
	mu    sync.RWMutex
	conns map[string]sender
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]sender)}
}

// Attach upgrades the request to a websocket, registers the connection under
// a fresh id and sends the id to the client as the first frame. It returns
// once the handshake is done; the connection lives until the peer closes it.
func (h *Hub) Attach(w http.ResponseWriter, r *http.Request) error {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		return fmt.Errorf("failed to accept websocket: %w", err)
	}

	id := uuid.NewString()
	h.register(id, &wsSender{c: c})

	if err := h.SendTo(r.Context(), id, EventConnected, map[string]string{"connectionId": id}); err != nil {
		h.remove(id)
		c.Close(websocket.StatusInternalError, "failed to send welcome frame")
		return err
	}

	go func() {
		// Clients never send application frames; CloseRead pumps control
		// frames and ends when the peer goes away.
		ctx := c.CloseRead(context.Background())
		<-ctx.Done()
		h.remove(id)
		c.Close(websocket.StatusNormalClosure, "")
	}()
	return nil
}

func (h *Hub) register(id string, s sender) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[id] = s
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, id)
}

// SendTo pushes one event to one connection. Fails with
// ErrConnectionNotFound if the connection is not hosted here (closed, or
// held by another instance).
func (h *Hub) SendTo(ctx context.Context, connectionID, event string, payload any) error {
	h.mu.RLock()
	s, ok := h.conns[connectionID]
	h.mu.RUnlock()
	if !ok {
		return ErrConnectionNotFound
	}
	data, err := json.Marshal(frame{Event: event, Payload: payload})
	if err != nil {
		return fmt.Errorf("failed to marshal push frame: %w", err)
	}
	return s.send(ctx, data)
}

// Broadcast pushes one event to every connection, best effort: send failures
// are logged and skipped.
func (h *Hub) Broadcast(ctx context.Context, event string, payload any) {
	log := logger.FromContext(ctx)
	data, err := json.Marshal(frame{Event: event, Payload: payload})
	if err != nil {
		log.Error("failed to marshal broadcast frame", "error", err)
		return
	}

	h.mu.RLock()
	targets := make(map[string]sender, len(h.conns))
	for id, s := range h.conns {
		targets[id] = s
	}
	h.mu.RUnlock()

	for id, s := range targets {
		if err := s.send(ctx, data); err != nil {
			log.Debug("broadcast send failed", "connection_id", id, "error", err)
		}
	}
}

// ConnCount reports the number of attached connections.
func (h *Hub) ConnCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
