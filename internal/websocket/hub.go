// Package websocket pushes attendance events to connected browsers.
package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"rollbook/internal/infrastructure"
	"rollbook/pkg/contracts/events"
)

// broadcastBuffer bounds queued broadcasts; Broadcast drops beyond it.
const broadcastBuffer = 64

// Hub maintains the set of active clients and broadcasts messages to the clients
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound messages for every client
	broadcast chan []byte

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	mu      sync.RWMutex
	logger  *slog.Logger
	metrics *infrastructure.Metrics

	totalConnections int64
	messagesSent     int64
	messagesDropped  int64

	quit     chan struct{}
	done     chan struct{}
	running  bool
	stopOnce sync.Once
}

// NewHub creates a new Hub. metrics may be nil.
func NewHub(logger *slog.Logger, metrics *infrastructure.Metrics) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in its own goroutine. Calling it twice is a no-op.
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.Run()
}

// Run is the hub's main loop. It returns after Stop.
func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.quit:
			h.closeAll()
			h.logger.Info("Hub shutting down")
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.totalConnections++
			count := len(h.clients)
			h.mu.Unlock()

			ctx := client.context()
			h.metrics.RecordWebSocketClients(ctx, 1)
			h.logger.InfoContext(ctx, "Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			h.greet(ctx, client)

		case client := <-h.unregister:
			h.remove(client, "Client unregistered")

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			failCount := 0
			for _, client := range clients {
				select {
				case client.send <- message:
					h.mu.Lock()
					h.messagesSent++
					h.mu.Unlock()
				default:
					failCount++
					h.remove(client, "Client send buffer full, disconnecting")
				}
			}

			h.logger.Debug("Broadcast delivered",
				slog.Int("client_count", len(clients)),
				slog.Int("message_size", len(message)),
				slog.Int("fail_count", failCount))
		}
	}
}

func (h *Hub) greet(ctx context.Context, client *Client) {
	data, err := json.Marshal(events.Message{
		Type:      events.MessageTypeConnect,
		Timestamp: time.Now().UTC(),
		TraceID:   client.traceID,
		Data:      events.Connected{ClientID: client.id},
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "Error marshaling connect message",
			slog.String("error", err.Error()))
		return
	}

	select {
	case client.send <- data:
	default:
		h.logger.WarnContext(ctx, "Failed to send connect message - client buffer full",
			slog.String("client_id", client.id))
	}
}

// remove drops client and closes its send channel. Only the Run goroutine
// calls it, so a channel is never closed twice.
func (h *Hub) remove(client *Client, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()

	ctx := client.context()
	h.metrics.RecordWebSocketClients(ctx, -1)
	h.logger.InfoContext(ctx, reason,
		slog.Int("total_clients", count),
		slog.String("client_id", client.id),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.remove(client, "Client closed on shutdown")
	}
}

// Broadcast queues msg for every connected client without blocking. The
// message is dropped when the queue is full or the hub has stopped.
func (h *Hub) Broadcast(msg events.Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", string(msg.Type)))
		return
	}

	select {
	case <-h.quit:
		return
	default:
	}

	select {
	case h.broadcast <- data:
	default:
		h.mu.Lock()
		h.messagesDropped++
		h.mu.Unlock()
		h.logger.Warn("Broadcast queue full, dropping message",
			slog.String("message_type", string(msg.Type)))
	}
}

// Register adds a client to the hub. It returns false when the hub has
// stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.quit:
		return false
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stop shuts the hub down and waits for the loop to close every client.
func (h *Hub) Stop() {
	h.mu.RLock()
	running := h.running
	h.mu.RUnlock()

	h.stopOnce.Do(func() { close(h.quit) })
	if running {
		<-h.done
	}
}

// HubMetrics returns current hub counters
func (h *Hub) HubMetrics() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]interface{}{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"messages_dropped":  h.messagesDropped,
	}
}
