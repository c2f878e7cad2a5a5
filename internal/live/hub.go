// Package live fans domain events out to connected admin dashboards.
package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"hackathon-backend/events"
	"hackathon-backend/log"
)

const writeWait = 5 * time.Second

type Message struct {
	Type string        `json:"type"`
	Data *events.Event `json:"data"`
}

type Hub struct {
	mu    sync.Mutex
	conns map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{conns: make(map[*websocket.Conn]bool)}
}

func (h *Hub) Add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
	log.Logger.Debug("live client connected", zap.Int("clients", len(h.conns)))
}

func (h *Hub) Remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[conn] {
		delete(h.conns, conn)
		conn.Close()
		log.Logger.Debug("live client disconnected", zap.Int("clients", len(h.conns)))
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Publish sends e to every client. Clients that cannot keep up are dropped.
// Writes happen under the hub lock so a connection never has two writers.
func (h *Hub) Publish(e *events.Event) error {
	data, err := json.Marshal(Message{Type: string(e.Type), Data: e})
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Logger.Debug("live write failed", zap.Error(err))
			conn.Close()
			delete(h.conns, conn)
		}
	}
	return nil
}

// Run relays events from the bus until ctx is done or the stream closes.
func (h *Hub) Run(ctx context.Context, stream <-chan *events.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-stream:
			if !ok {
				log.Logger.Warn("event stream closed, live feed stopped")
				return
			}
			_ = h.Publish(e)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		delete(h.conns, conn)
	}
}
