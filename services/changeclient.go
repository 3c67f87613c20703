package services

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4 * 1024

	// Send buffer size
	sendBufferSize = 64
)

// changeMessage is a message sent to/from clients
type changeMessage struct {
	Type  string          `json:"type"`  // subscribe, unsubscribe, change, ping
	Table string          `json:"table"` // services, projects, orders, contacts
	Data  json.RawMessage `json:"data,omitempty"`
}

// ChangeClient represents a WebSocket client watching table changes
type ChangeClient struct {
	hub        *ChangeHub
	conn       *websocket.Conn
	send       chan []byte
	tables     map[string]bool // tables this client is watching
	tablesMu   sync.RWMutex
	remoteAddr string
}

// NewChangeClient creates a new change client
func NewChangeClient(hub *ChangeHub, conn *websocket.Conn, remoteAddr string) *ChangeClient {
	return &ChangeClient{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		tables:     make(map[string]bool),
		remoteAddr: remoteAddr,
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub
func (c *ChangeClient) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("⚠️ WebSocket error: %v", err)
			}
			break
		}

		var msg changeMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("⚠️ Invalid message from %s: %v", c.remoteAddr, err)
			continue
		}

		switch msg.Type {
		case "subscribe":
			if msg.Table != "" {
				if err := c.hub.Subscribe(c, msg.Table); err != nil {
					log.Printf("⚠️ Subscribe failed: %v", err)
					c.sendError(err.Error())
				}
			}

		case "unsubscribe":
			if msg.Table != "" {
				c.hub.Unsubscribe(c, msg.Table)
			}

		case "ping":
			c.sendPong()

		default:
			log.Printf("⚠️ Unknown message type: %s", msg.Type)
		}
	}
}

// WritePump pumps messages from the hub to the WebSocket connection
func (c *ChangeClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

func (c *ChangeClient) sendError(errMsg string) {
	msg := map[string]string{
		"type":  "error",
		"error": errMsg,
	}
	msgBytes, _ := json.Marshal(msg)
	select {
	case c.send <- msgBytes:
	default:
	}
}

func (c *ChangeClient) sendPong() {
	msg := map[string]string{
		"type": "pong",
	}
	msgBytes, _ := json.Marshal(msg)
	select {
	case c.send <- msgBytes:
	default:
	}
}
