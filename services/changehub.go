package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mowlid/portfolio-backend/natsserver"
	"github.com/nats-io/nats.go"
)

// Tables that clients may watch for changes
var watchableTables = map[string]bool{
	"services": true,
	"projects": true,
	"orders":   true,
	"contacts": true,
}

// ChangeEvent describes a mutation of a watched table
type ChangeEvent struct {
	Table     string    `json:"table"`
	Action    string    `json:"action"` // insert, update, delete
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// ChangeHub fans table-change events out to WebSocket clients. Handlers
// publish through NotifyChange; clients subscribe per table.
type ChangeHub struct {
	bus *natsserver.EmbeddedNATS

	// WebSocket connections
	clients   map[*ChangeClient]bool
	clientsMu sync.RWMutex

	// Table subscriptions (table -> subscription)
	subscriptions   map[string]*tableSubscription
	subscriptionsMu sync.RWMutex

	register   chan *ChangeClient
	unregister chan *ChangeClient
}

// tableSubscription tracks a NATS subscription for one table
type tableSubscription struct {
	table     string
	natsSub   *nats.Subscription
	viewers   map[*ChangeClient]bool
	viewersMu sync.RWMutex
}

// NewChangeHub creates a new change hub
func NewChangeHub(bus *natsserver.EmbeddedNATS) *ChangeHub {
	return &ChangeHub{
		bus:           bus,
		clients:       make(map[*ChangeClient]bool),
		subscriptions: make(map[string]*tableSubscription),
		register:      make(chan *ChangeClient),
		unregister:    make(chan *ChangeClient),
	}
}

// Register adds a client to the hub
func (h *ChangeHub) Register(client *ChangeClient) {
	h.register <- client
}

// Run starts the hub's main loop
func (h *ChangeHub) Run() {
	log.Println("📺 Change hub started")

	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			h.clientsMu.Unlock()
			log.Printf("📺 Client connected: %s", client.remoteAddr)

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.clientsMu.Unlock()

			// Unsubscribe from all tables
			client.tablesMu.Lock()
			tables := make([]string, 0, len(client.tables))
			for table := range client.tables {
				tables = append(tables, table)
			}
			client.tables = make(map[string]bool)
			client.tablesMu.Unlock()
			for _, table := range tables {
				h.unsubscribeClient(client, table)
			}

			log.Printf("📺 Client disconnected: %s", client.remoteAddr)
		}
	}
}

// NotifyChange publishes a change event for a table. Safe to call with a
// nil hub receiver so handlers need no initialization check.
func (h *ChangeHub) NotifyChange(table, action string, id int64) {
	if h == nil {
		return
	}
	event := ChangeEvent{
		Table:     table,
		Action:    action,
		ID:        id,
		Timestamp: time.Now(),
	}
	data, _ := json.Marshal(event)
	if err := h.bus.Publish("changes."+table, data); err != nil {
		log.Printf("⚠️ Failed to publish change event for %s: %v", table, err)
	}
}

// Subscribe subscribes a client to a table's change events
func (h *ChangeHub) Subscribe(client *ChangeClient, table string) error {
	if !watchableTables[table] {
		return fmt.Errorf("unknown table: %s", table)
	}

	h.subscriptionsMu.Lock()
	defer h.subscriptionsMu.Unlock()

	sub, exists := h.subscriptions[table]
	if !exists {
		sub = &tableSubscription{
			table:   table,
			viewers: make(map[*ChangeClient]bool),
		}

		var err error
		sub.natsSub, err = h.bus.Subscribe("changes."+table, func(msg *nats.Msg) {
			h.broadcastChange(table, msg.Data)
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to changes: %w", err)
		}

		h.subscriptions[table] = sub
		log.Printf("📺 Created subscription for table %s", table)
	}

	sub.viewersMu.Lock()
	sub.viewers[client] = true
	sub.viewersMu.Unlock()

	client.tablesMu.Lock()
	client.tables[table] = true
	client.tablesMu.Unlock()

	log.Printf("📺 Client %s subscribed to %s", client.remoteAddr, table)
	return nil
}

// Unsubscribe removes a client from a table's change events
func (h *ChangeHub) Unsubscribe(client *ChangeClient, table string) {
	client.tablesMu.Lock()
	delete(client.tables, table)
	client.tablesMu.Unlock()

	h.unsubscribeClient(client, table)
}

func (h *ChangeHub) unsubscribeClient(client *ChangeClient, table string) {
	h.subscriptionsMu.Lock()
	defer h.subscriptionsMu.Unlock()

	sub, exists := h.subscriptions[table]
	if !exists {
		return
	}

	sub.viewersMu.Lock()
	delete(sub.viewers, client)
	viewerCount := len(sub.viewers)
	sub.viewersMu.Unlock()

	// Drop the NATS subscription once nobody is watching
	if viewerCount == 0 {
		if sub.natsSub != nil {
			sub.natsSub.Unsubscribe()
		}
		delete(h.subscriptions, table)
		log.Printf("📺 Removed subscription for table %s (no viewers)", table)
	}
}

// broadcastChange sends a change event to all viewers of a table
func (h *ChangeHub) broadcastChange(table string, data []byte) {
	h.subscriptionsMu.RLock()
	sub, exists := h.subscriptions[table]
	h.subscriptionsMu.RUnlock()

	if !exists {
		return
	}

	msg := changeMessage{
		Type:  "change",
		Table: table,
		Data:  data,
	}
	msgBytes, _ := json.Marshal(msg)

	sub.viewersMu.RLock()
	for client := range sub.viewers {
		select {
		case client.send <- msgBytes:
		default:
			// Client buffer full, skip event
		}
	}
	sub.viewersMu.RUnlock()
}

// Stats returns hub statistics
type HubStats struct {
	Clients         int      `json:"clients"`
	Subscriptions   int      `json:"subscriptions"`
	WatchedTables   []string `json:"watchedTables"`
	EventsPublished uint64   `json:"eventsPublished"`
	EventsDropped   uint64   `json:"eventsDropped"`
}

func (h *ChangeHub) Stats() HubStats {
	h.clientsMu.RLock()
	clientCount := len(h.clients)
	h.clientsMu.RUnlock()

	h.subscriptionsMu.RLock()
	tables := make([]string, 0, len(h.subscriptions))
	for table := range h.subscriptions {
		tables = append(tables, table)
	}
	h.subscriptionsMu.RUnlock()

	bus := h.bus.GetStats()

	return HubStats{
		Clients:         clientCount,
		Subscriptions:   len(tables),
		WatchedTables:   tables,
		EventsPublished: bus.EventsPublished,
		EventsDropped:   bus.EventsDropped,
	}
}
