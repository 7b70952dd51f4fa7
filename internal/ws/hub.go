package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// Event is one entry of the admin activity feed.
type Event struct {
	Type      string      `json:"type"`
	Action    string      `json:"action"`
	Product   interface{} `json:"product,omitempty"`
	Actor     string      `json:"actor,omitempty"`
	Message   string      `json:"message"`
	Timestamp time.Time   `json:"timestamp"`
}

// broadcastBuffer lets a publisher hand off an event without waiting on slow sockets.
const broadcastBuffer = 64

// Hub fans feed events out to connected admins. A handler sends its conn on
// Unregister before returning, so the hub never touches a released conn.
type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, broadcastBuffer),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			zap.L().Debug("admin feed client connected")

		case conn := <-h.Unregister:
			// The handler owns the socket once it leaves; the hub only forgets it.
			h.mutex.Lock()
			delete(h.Clients, conn)
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// ClientCount returns the number of connected feed clients.
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// Publish queues an event for every connected client. It never blocks: when
// the buffer is full the event is dropped. A nil hub ignores events.
func (h *Hub) Publish(event Event) {
	if h == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	msg, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("marshal feed event", zap.Error(err))
		return
	}
	select {
	case h.Broadcast <- msg:
	default:
		zap.L().Warn("admin feed buffer full, dropping event", zap.String("action", event.Action))
	}
}
