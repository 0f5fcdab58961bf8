package monitoring

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event is pushed to every connected dashboard
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	broadcastBuffer = 64
	writeWait       = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventHub fans report lifecycle events out to websocket clients
type EventHub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Event
	stopOnce   sync.Once
	done       chan struct{}
}

func NewEventHub() *EventHub {
	return &EventHub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, broadcastBuffer),
		done:      make(chan struct{}),
	}
}

// Start runs the broadcaster until Stop is called
func (h *EventHub) Start() {
	go h.handleBroadcast()
}

// Stop closes all client connections
func (h *EventHub) Stop() {
	h.stopOnce.Do(func() {
		close(h.done)

		h.clientsMux.Lock()
		for client := range h.clients {
			client.Close()
			delete(h.clients, client)
		}
		h.clientsMux.Unlock()
	})
}

// Publish queues an event. It never blocks the caller; when the buffer is
// full the event is dropped.
func (h *EventHub) Publish(eventType string, payload any) {
	event := Event{Type: eventType, Payload: payload, Timestamp: time.Now().UTC()}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[EventHub] Buffer full, dropping %s event", eventType)
	}
}

// ClientCount returns the number of connected websocket clients
func (h *EventHub) ClientCount() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}

func (h *EventHub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[EventHub] WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	// Clients only listen; reading detects disconnects
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			return
		}
	}
}

func (h *EventHub) handleBroadcast() {
	for {
		select {
		case <-h.done:
			return
		case event := <-h.broadcast:
			h.clientsMux.Lock()
			for client := range h.clients {
				client.SetWriteDeadline(time.Now().Add(writeWait))
				if err := client.WriteJSON(event); err != nil {
					client.Close()
					delete(h.clients, client)
				}
			}
			h.clientsMux.Unlock()
		}
	}
}
