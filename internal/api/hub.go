package api

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nethmitharushika56/portfolio/internal/content"
	"github.com/nethmitharushika56/portfolio/internal/core"
	"github.com/nethmitharushika56/portfolio/internal/navigation"
	"github.com/nethmitharushika56/portfolio/internal/scene"
)

const (
	EventNavigation = "navigation"
	EventFrame      = "frame"
	EventChat       = "chat"
	EventError      = "error"

	clientBuffer = 64
	writeWait    = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is one message pushed to the page over the websocket.
type Event struct {
	Type       string             `json:"type"`
	Navigation *navigation.Change `json:"navigation,omitempty"`
	Frame      *scene.Frame       `json:"frame,omitempty"`
	Chat       *core.WidgetState  `json:"chat,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// clientMessage is what the page sends: pointer moves and clicks on the
// scene, or a navigation bar selection.
type clientMessage struct {
	Type    string        `json:"type"` // "pointer", "click" or "navigate"
	Pointer scene.Pointer `json:"pointer"`
	Section string        `json:"section,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans events out to every connected page.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	debug   bool
}

func NewHub(debug bool) *Hub {
	return &Hub{clients: make(map[*client]struct{}), debug: debug}
}

// Broadcast queues ev for every client. A client whose queue is full misses
// the event rather than stalling the others.
func (h *Hub) Broadcast(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			if h.debug {
				log.Printf("Dropping %s event for slow websocket client", ev.Type)
			}
		}
	}
}

// Clients returns the number of connected pages.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(conn *websocket.Conn) (*client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, false
	}
	c := &client{conn: conn, send: make(chan Event, clientBuffer)}
	h.clients[c] = struct{}{}
	return c, true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects every client. Hijacked connections are not closed by
// http.Server.Shutdown, so the server calls this on the way out.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.conn.Close()
	}
}

// writePump is the only writer on the connection.
func (c *client) writePump() {
	for ev := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(ev); err != nil {
			log.Printf("websocket write: %v", err)
			c.conn.Close()
			// Drain so unregister never blocks on a full queue.
			for range c.send {
			}
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *APIHandler) WebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	c, ok := h.hub.register(conn)
	if !ok {
		return
	}
	defer h.hub.unregister(c)
	go c.writePump()

	if h.debug {
		log.Printf("Websocket client connected from %s", r.RemoteAddr)
	}

	// Bring the new page up to date before streaming.
	change := navigation.Change{From: h.nav.Active(), To: h.nav.Active()}
	c.send <- Event{Type: EventNavigation, Navigation: &change}

	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("websocket read: %v", err)
			}
			return
		}

		switch msg.Type {
		case "pointer":
			h.scene.PointerMove(msg.Pointer)
		case "click":
			h.scene.Click(msg.Pointer)
		case "navigate":
			section, err := content.ParseSection(msg.Section)
			if err == nil {
				err = h.nav.Navigate(section)
			}
			if err != nil {
				h.sendError(c, err.Error())
			}
		default:
			h.sendError(c, "unknown message type: "+msg.Type)
		}
	}
}

func (h *APIHandler) sendError(c *client, message string) {
	select {
	case c.send <- Event{Type: EventError, Error: message}:
	default:
	}
}

// throttleFrames forwards at most rate frames per second to fn.
func throttleFrames(rate int, fn func(scene.Frame)) func(scene.Frame) {
	if rate <= 0 {
		return fn
	}
	interval := time.Second / time.Duration(rate)
	var mu sync.Mutex
	var last time.Time
	return func(f scene.Frame) {
		mu.Lock()
		now := time.Now()
		if !last.IsZero() && now.Sub(last) < interval {
			mu.Unlock()
			return
		}
		last = now
		mu.Unlock()
		fn(f)
	}
}
