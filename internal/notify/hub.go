package notify

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/affectsense/wearable-affect/internal/domain"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Research dashboards connect from arbitrary origins; auth happens
	// upstream of this service.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type client struct {
	participantID string
	conn          *websocket.Conn
	send          chan []byte
}

// Hub fans persisted inference outputs out to websocket subscribers, keyed
// by participant. A client that cannot keep up is dropped rather than
// allowed to block the inference cycle.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*client]struct{}),
	}
}

// NotifyInference broadcasts an output to every subscriber of the
// participant. Never blocks: full client buffers cause a disconnect.
func (h *Hub) NotifyInference(participantID string, output *domain.InferenceOutput) {
	payload, err := json.Marshal(output)
	if err != nil {
		log.Printf("hub: failed to marshal inference output: %v", err)
		return
	}

	h.mu.RLock()
	subscribers := make([]*client, 0, len(h.clients[participantID]))
	for c := range h.clients[participantID] {
		subscribers = append(subscribers, c)
	}
	h.mu.RUnlock()

	for _, c := range subscribers {
		select {
		case c.send <- payload:
		default:
			h.unregister(c)
		}
	}
}

// ServeWS upgrades the request and subscribes the connection to a
// participant's inference stream.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, participantID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("hub: websocket upgrade failed: %v", err)
		return
	}

	c := &client{
		participantID: participantID,
		conn:          conn,
		send:          make(chan []byte, sendBufferSize),
	}
	h.register(c)

	go c.writePump(h)
	go c.readPump(h)
}

// SubscriberCount reports how many clients listen for a participant.
func (h *Hub) SubscriberCount(participantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[participantID])
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.participantID] == nil {
		h.clients[c.participantID] = make(map[*client]struct{})
	}
	h.clients[c.participantID][c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	set, ok := h.clients[c.participantID]
	if ok {
		if _, present := set[c]; present {
			delete(set, c)
			close(c.send)
			if len(set) == 0 {
				delete(h.clients, c.participantID)
			}
		}
	}
	h.mu.Unlock()
}

// readPump drains client messages. Inbound data is ignored; the read loop
// exists to detect disconnects and answer pings.
func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump(h *Hub) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
