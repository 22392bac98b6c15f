package ws

import (
	"context"
	"log/slog"
	"sync"
)

// Hub maintains the set of active clients and routes messages.
type Hub struct {
	Clients    map[*Client]bool
	Register   chan *Client
	Unregister chan *Client
	Incoming   chan *ClientMessage
	done       chan struct{}
	mu         sync.RWMutex

	// OnMessage is called for each incoming client message.
	OnMessage func(cm *ClientMessage)
	// OnDisconnect is called when a client disconnects.
	OnDisconnect func(client *Client)
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*Client]bool),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Incoming:   make(chan *ClientMessage, 256),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's main loop. It returns when ctx is done, after
// closing every client's send channel.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.Register:
			h.mu.Lock()
			h.Clients[client] = true
			h.mu.Unlock()
			slog.Info("client connected", "client", client.ID)

		case client := <-h.Unregister:
			h.remove(client)

		case cm := <-h.Incoming:
			if h.OnMessage != nil {
				h.OnMessage(cm)
			}
		}
	}
}

// remove drops a client. OnDisconnect runs before Send is closed so that
// rooms stop writing to the client first.
func (h *Hub) remove(client *Client) {
	h.mu.RLock()
	_, ok := h.Clients[client]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if h.OnDisconnect != nil {
		h.OnDisconnect(client)
	}
	h.mu.Lock()
	delete(h.Clients, client)
	close(client.Send)
	h.mu.Unlock()
	slog.Info("client disconnected", "client", client.ID)
}

func (h *Hub) closeAll() {
	close(h.done)

	h.mu.RLock()
	clients := make([]*Client, 0, len(h.Clients))
	for client := range h.Clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.remove(client)
	}
}

// deliver queues an incoming message. It returns false once the hub has
// stopped.
func (h *Hub) deliver(cm *ClientMessage) bool {
	select {
	case h.Incoming <- cm:
		return true
	case <-h.done:
		return false
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.Clients)
}
