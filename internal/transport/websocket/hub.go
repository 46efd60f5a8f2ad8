package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"medcare/internal/domain"
)

const eventBuffer = 256

// Hub fans appointment events out to every open connection of the users
// involved. One user may hold several connections.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	events     chan domain.AppointmentEvent
	done       chan struct{}
	logger     *zap.Logger
	mutex      sync.RWMutex
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		events:     make(chan domain.AppointmentEvent, eventBuffer),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client set until ctx is done, then closes every connection.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return

		case client := <-h.register:
			h.mutex.Lock()
			if h.clients[client.actor.UserID] == nil {
				h.clients[client.actor.UserID] = make(map[*Client]struct{})
			}
			h.clients[client.actor.UserID][client] = struct{}{}
			h.mutex.Unlock()
			h.logger.Info("event stream connected",
				zap.Int64("userId", client.actor.UserID),
				zap.String("role", string(client.actor.Role)))

		case client := <-h.unregister:
			h.remove(client)

		case event := <-h.events:
			h.deliver(event)
		}
	}
}

// Notify queues an event without blocking the caller. Events are dropped
// when the queue is full.
func (h *Hub) Notify(event domain.AppointmentEvent) {
	select {
	case h.events <- event:
	default:
		h.logger.Warn("event queue full, dropping event",
			zap.String("type", string(event.Type)),
			zap.Int64("appointmentId", event.AppointmentID))
	}
}

func (h *Hub) Connections(userID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}

func (h *Hub) deliver(event domain.AppointmentEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.Error(err))
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, userID := range event.Recipients() {
		for client := range h.clients[userID] {
			select {
			case client.send <- data:
			default:
				// slow reader; the read pump drops it once the socket dies
				h.logger.Warn("client send buffer full", zap.Int64("userId", userID))
			}
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conns, ok := h.clients[client.actor.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	close(client.send)
	if len(conns) == 0 {
		delete(h.clients, client.actor.UserID)
	}
	h.logger.Info("event stream disconnected", zap.Int64("userId", client.actor.UserID))
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, conns := range h.clients {
		for client := range conns {
			close(client.send)
		}
		delete(h.clients, userID)
	}
}
