package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/certverify-labs/certverify/internal/dashboard"
)

type Hub struct {
	clients    map[*Client]bool
	users      map[uuid.UUID]map[*Client]bool
	broadcast  chan Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		users:      make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case event := <-h.broadcast:
			h.dispatch(event)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	if h.users[client.userID] == nil {
		h.users[client.userID] = make(map[*Client]bool)
	}
	h.users[client.userID][client] = true
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		delete(h.users[client.userID], client)

		if len(h.users[client.userID]) == 0 {
			delete(h.users, client.userID)
		}

		close(client.send)
	}
}

func (h *Hub) dispatch(event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	message, err := json.Marshal(event)
	if err != nil {
		return
	}

	if event.UserID == uuid.Nil {
		for client := range h.clients {
			h.deliver(client, message)
		}
		return
	}

	for client := range h.users[event.UserID] {
		h.deliver(client, message)
	}
}

// deliver drops slow clients rather than blocking the hub.
func (h *Hub) deliver(client *Client, message []byte) {
	select {
	case client.send <- message:
	default:
		close(client.send)
		delete(h.clients, client)
		delete(h.users[client.userID], client)
	}
}

// BroadcastToUser sends an event to every connection of one user.
func (h *Hub) BroadcastToUser(userID uuid.UUID, eventType EventType, data interface{}) {
	h.enqueue(Event{
		UserID:    userID,
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
}

// BroadcastToAll sends an event to every connected client.
func (h *Hub) BroadcastToAll(eventType EventType, data interface{}) {
	h.enqueue(Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now(),
	})
}

func (h *Hub) enqueue(event Event) {
	select {
	case h.broadcast <- event:
	default:
	}
}

// PublishDashboard satisfies the dashboard refresher's publisher.
func (h *Hub) PublishDashboard(snap *dashboard.Snapshot) {
	h.BroadcastToAll(EventDashboard, snap)
}

func (h *Hub) GetConnectedClients(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.users[userID])
}
