package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/sakshiot4/UrbanWatch-plus/internal/goroutine"
	"github.com/sakshiot4/UrbanWatch-plus/internal/logger"
)

// NotificationSaver persists a pushed event as an in-app notification.
type NotificationSaver interface {
	CreateNotification(ctx context.Context, userID uuid.UUID, event string, data interface{}) error
}

// Hub tracks all WebSocket clients and routes per-user events to them.
// Complaint status changes are pushed here so dashboards update without
// polling.
type Hub struct {
	mu                sync.RWMutex
	clients           map[uuid.UUID]map[*Client]struct{}
	register          chan *Client
	unregister        chan *Client
	broadcast         chan message
	notificationSaver NotificationSaver
	ctx               context.Context
}

type message struct {
	userID  uuid.UUID
	payload []byte
}

// NewHub creates a new hub.
func NewHub(ctx context.Context) *Hub {
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan message, 32),
		ctx:        ctx,
	}
}

// SetNotificationSaver wires in the service that persists pushed events.
func (h *Hub) SetNotificationSaver(saver NotificationSaver) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notificationSaver = saver
}

// Run drives the hub's main loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case msg := <-h.broadcast:
			h.send(msg.userID, msg.payload)
		}
	}
}

// Register adds a client.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// BroadcastToUser pushes an event to one user's open connections and
// persists it as a notification. The wire contract is {"type": event,
// "data": payload}.
func (h *Hub) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	payload := map[string]any{
		"type": event,
		"data": data,
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ws: failed to serialize message: %w", err)
	}

	h.mu.RLock()
	saver := h.notificationSaver
	ctx := h.ctx
	h.mu.RUnlock()

	if saver != nil {
		// Persist asynchronously so a slow insert never blocks the push.
		goroutine.SafeGo(func() {
			if err := saver.CreateNotification(ctx, userID, event, data); err != nil {
				logger.Log.WithError(err).Warn("ws: failed to save notification")
			}
		})
	}

	h.broadcast <- message{userID: userID, payload: raw}
	return nil
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]struct{})
	}
	h.clients[client.userID][client] = struct{}{}
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.clients, client.userID)
		}
	}
}

func (h *Hub) send(userID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[userID] {
		select {
		case client.send <- payload:
		default:
			// A client that cannot keep up gets disconnected.
			goroutine.SafeGo(client.Close)
		}
	}
}
