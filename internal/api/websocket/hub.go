package websocket

import (
	"context"
	"log"
	"sync/atomic"

	"github.com/troyes-analytics/effectif/internal/metrics"
)

// Hub maintains the set of active clients and fans squad events out to them.
// The clients map is only touched from the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	count      atomic.Int64
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes registrations and broadcasts until the context ends
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return

		case client := <-h.register:
			h.clients[client] = true
			h.updateCount()
			log.Printf("[ws] client connected (total: %d)", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.updateCount()
				log.Printf("[ws] client disconnected (total: %d)", len(h.clients))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow client, drop it rather than stall the hub
					delete(h.clients, client)
					close(client.send)
					log.Println("[ws] ⚠️  client buffer full, disconnecting")
				}
			}
			h.updateCount()
		}
	}
}

// Broadcast queues a message for all clients without blocking the caller
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		log.Println("[ws] ⚠️  broadcast queue full, dropping message")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

func (h *Hub) updateCount() {
	n := int64(len(h.clients))
	h.count.Store(n)
	metrics.SetConnectedClients(n)
}

// shutdown closes all client connections
func (h *Hub) shutdown() {
	for client := range h.clients {
		close(client.send)
		delete(h.clients, client)
	}
	h.updateCount()
	log.Println("[ws] hub stopped")
}
