// Package websocket streams committed journal entries to connected administrators.
package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"sync"

	"sanogestion/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	sendBuffer      = 64
	broadcastBuffer = 256
)

// Client represents a single connected WebSocket client
type Client struct {
	Hub         *Hub
	Conn        *websocket.Conn
	Send        chan []byte
	PersonnelID uint
}

// Hub maintains the set of active clients and broadcasts journal entries to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	mu         sync.Mutex
	upgrader   websocket.Upgrader
}

// NewHub creates a hub accepting connections from the given origins.
// An empty list only accepts same-host requests.
func NewHub(origins []string) *Hub {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	h := &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || allowed["*"] || allowed[origin] {
				return true
			}
			u, err := url.Parse(origin)
			return err == nil && u.Host == r.Host
		},
	}
	return h
}

// Run starts the core dispatch loop. It returns after Stop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Println("Journal feed client connected")
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.Send <- message:
				default:
					// slow consumer, drop it
					close(client.Send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		case <-h.stop:
			h.mu.Lock()
			for client := range h.clients {
				close(client.Send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop ends Run and disconnects every client.
func (h *Hub) Stop() { close(h.stop) }

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// DisconnectPersonnel closes every feed opened by one personnel.
func (h *Hub) DisconnectPersonnel(personnelID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		if client.PersonnelID == personnelID {
			close(client.Send)
			delete(h.clients, client)
			log.Printf("Journal feed of personnel %d closed", personnelID)
		}
	}
}

// PublishJournal queues an entry for broadcast. It never blocks the caller;
// entries are dropped when the queue is full.
func (h *Hub) PublishJournal(entry service.JournalEntryResponse) {
	payload, err := json.Marshal(entry)
	if err != nil {
		log.Printf("WARNING: encode journal entry: %v", err)
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		log.Printf("WARNING: journal feed queue full, entry %d dropped", entry.ID)
	}
}

// writePump handles writing messages from the Hub to the WebSocket connection
func (c *Client) writePump() {
	defer func() {
		_ = c.Conn.Close()
	}()
	for message := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump drains the connection until the peer goes away.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.Hub.unregister <- c:
		case <-c.Hub.stop:
		}
		_ = c.Conn.Close()
	}()
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("journal feed: %v", err)
			}
			return
		}
	}
}

// ServeWs upgrades an already authorized request made by personnelID.
func ServeWs(hub *Hub, c *gin.Context, personnelID uint) {
	conn, err := hub.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade failed:", err)
		return
	}
	client := &Client{Hub: hub, Conn: conn, Send: make(chan []byte, sendBuffer), PersonnelID: personnelID}
	select {
	case hub.register <- client:
	case <-hub.stop:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
