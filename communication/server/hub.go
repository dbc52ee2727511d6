package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Message is the envelope of every websocket frame.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub fans state changes out to websocket clients.
type Hub struct {
	mu        sync.Mutex
	clients   map[*client]struct{}
	broadcast chan Message
}

type client struct {
	send chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:   make(map[*client]struct{}),
		broadcast: make(chan Message, 32),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			h.mu.Lock()
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			h.mu.Unlock()
			return
		case msg := <-h.broadcast:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Error().Err(err).Msg("failed to encode broadcast")
				continue
			}
			h.mu.Lock()
			for c := range h.clients {
				c.sendRaw(data)
			}
			h.mu.Unlock()
		}
	}
}

// Publish queues payload for every client. A full queue drops the message.
func (h *Hub) Publish(kind string, payload any) {
	msg := Message{Type: kind}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Msgf("failed to encode %s payload", kind)
			return
		}
		msg.Payload = data
	}
	select {
	case h.broadcast <- msg:
	default:
		log.Warn().Msgf("hub queue full, dropping %s message", kind)
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// sendTo queues msg for a single client that is still registered.
func (h *Hub) sendTo(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		c.sendRaw(data)
	}
}

func (c *client) sendRaw(data []byte) {
	select {
	case c.send <- data:
	default:
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// serveWS registers the connection, sends the current state and then keeps
// writing hub messages with idle pings until the client goes away.
func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	c := &client{send: make(chan []byte, 16)}
	s.hub.register(c)

	if state, err := s.controller.State(); err == nil {
		s.hub.sendTo(c, Message{Type: "state", Payload: mustMarshal(state)})
	}

	go func() {
		defer conn.Close()
		if err := writeWithHeartbeat(conn, c.send, s.pingInterval); err != nil {
			log.Debug().Err(err).Msg("websocket writer stopped")
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.hub.unregister(c)
			return
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.Type == "request_state" {
			if state, err := s.controller.State(); err == nil {
				s.hub.sendTo(c, Message{Type: "state", Payload: mustMarshal(state)})
			}
		}
	}
}

func writeWithHeartbeat(conn *websocket.Conn, send <-chan []byte, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping := mustMarshal(Message{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < interval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}

func mustMarshal(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}
