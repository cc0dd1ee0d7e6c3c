package feed

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"git.lost.host/meutraa/beatlane/internal/game"
)

const writeWait = time.Second

type HubConfig struct {
	Logger *log.Logger
	// Snapshots published closer together than Interval are skipped, except
	// the one ending the session.
	Interval time.Duration
}

// Hub streams game snapshots as JSON text messages to websocket clients,
// e.g. a browser drawing the lanes. Slow clients miss frames, they never
// hold up the game loop.
type Hub struct {
	logger   *log.Logger
	interval time.Duration
	upgrader websocket.Upgrader

	mu       sync.Mutex
	clients  map[*client]struct{}
	last     []byte
	lastSent time.Time
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Hub{
		logger:   logger,
		interval: cfg.Interval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: map[*client]struct{}{},
	}
}

func (h *Hub) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	if nil != h.last {
		c.send <- h.last
	}
	h.mu.Unlock()

	go c.write()

	// Clients only listen, reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (c *client) write() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Publish sends s to every connected client.
func (h *Hub) Publish(s game.Snapshot) {
	now := time.Now()
	h.mu.Lock()
	defer h.mu.Unlock()
	if s.Playing && h.interval > 0 && now.Sub(h.lastSent) < h.interval {
		return
	}

	data, err := json.Marshal(s)
	if err != nil {
		h.logger.Printf("failed to marshal snapshot: %v", err)
		return
	}
	h.last = data
	h.lastSent = now

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
