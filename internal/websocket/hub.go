// Package websocket pushes live tracking events to connected map clients.
package websocket

import (
	"encoding/json"
	"log"
	"sync"
)

// Event types pushed over the live socket.
const (
	EventPosition = "position"
	EventMarker   = "marker"
	EventStatus   = "status"
	EventOrigin   = "origin"
)

type envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Hub maintains the set of active clients and fans live events out to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run owns the client set. Call it once in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("websocket client connected: %s", client.conn.RemoteAddr())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer: drop it rather than stall the live path.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Register hands a new client to the hub.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Broadcast sends a typed event to every connected client.
func (h *Hub) Broadcast(eventType string, payload interface{}) {
	message, err := json.Marshal(envelope{Type: eventType, Payload: payload})
	if err != nil {
		log.Printf("websocket: marshal %s event: %v", eventType, err)
		return
	}
	h.broadcast <- message
}
