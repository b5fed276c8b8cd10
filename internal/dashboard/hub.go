package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"nhooyr.io/websocket"

	"github.com/Umesh49/ZeroTrace/internal/knowledge"
	"github.com/Umesh49/ZeroTrace/internal/pipeline"
)

// writeTimeout bounds a single WebSocket write to a slow client.
const writeTimeout = 5 * time.Second

// Hub manages WebSocket clients, event broadcasting, and stats.
type Hub struct {
	events    *RingBuffer[*Event]
	stats     *Stats
	knowledge map[string]int
	eventSeq  atomic.Uint64

	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
}

// NewHub creates a new dashboard hub for the given knowledge base.
func NewHub(kb *knowledge.Base) *Hub {
	return &Hub{
		events:    NewRingBuffer[*Event](defaultBufferSize),
		stats:     NewStats(),
		knowledge: kb.Counts(),
		clients:   make(map[*websocket.Conn]struct{}),
	}
}

// OnEvent is the observer callback to register with the pipeline.
func (h *Hub) OnEvent(pe pipeline.Event) {
	event := &Event{
		ID:    fmt.Sprintf("evt-%d", h.eventSeq.Add(1)),
		Event: pe,
	}

	h.events.Add(event)
	h.stats.Record(event)
	h.broadcast(WSMessage{Type: "event", Payload: event})
}

// Register adds a WebSocket client and sends it the initial state.
func (h *Hub) Register(ctx context.Context, conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = struct{}{}
	h.mu.Unlock()

	initial := WSMessage{
		Type: "initial_state",
		Payload: InitialState{
			Events:    h.events.All(),
			Stats:     h.stats.Snapshot(),
			Knowledge: h.knowledge,
		},
	}

	data, err := json.Marshal(initial)
	if err != nil {
		return
	}
	h.write(ctx, conn, data)
}

// Unregister removes a WebSocket client.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// broadcast sends a message to all connected clients.
func (h *Hub) broadcast(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.write(context.Background(), c, data)
	}
}

// write sends data to one client, dropping the client on failure.
func (h *Hub) write(ctx context.Context, conn *websocket.Conn, data []byte) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		h.Unregister(conn)
	}
}

// StartStatsBroadcast pushes stats snapshots to all clients every interval.
func (h *Hub) StartStatsBroadcast(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.broadcast(WSMessage{
				Type:    "stats_update",
				Payload: h.stats.Snapshot(),
			})
		}
	}
}

// Events returns the ring buffer (for API handlers).
func (h *Hub) Events() *RingBuffer[*Event] {
	return h.events
}

// StatsSnapshot returns a snapshot of accumulated stats.
func (h *Hub) StatsSnapshot() *StatsSnapshot {
	return h.stats.Snapshot()
}

// KnowledgeCounts returns the record count per knowledge-base category.
func (h *Hub) KnowledgeCounts() map[string]int {
	return h.knowledge
}
