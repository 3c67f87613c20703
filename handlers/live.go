package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mowlid/portfolio-backend/services"
)

var (
	changeHub *services.ChangeHub
	upgrader  = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return true // Allow all origins for now
		},
	}
)

// SetChangeHub sets the change hub for the handlers
func SetChangeHub(hub *services.ChangeHub) {
	changeHub = hub
}

// HandleChangeWebSocket handles WebSocket connections for live table changes
func HandleChangeWebSocket(c *gin.Context) {
	if changeHub == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Change hub not initialized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade failed: %v", err)
		return
	}

	client := services.NewChangeClient(changeHub, conn, c.ClientIP())

	changeHub.Register(client)

	// Start goroutines for reading and writing
	go client.WritePump()
	go client.ReadPump()
}

// GetChangeHubStats returns change hub statistics
func GetChangeHubStats(c *gin.Context) {
	if changeHub == nil {
		c.JSON(http.StatusOK, gin.H{
			"enabled": false,
		})
		return
	}

	stats := changeHub.Stats()
	c.JSON(http.StatusOK, gin.H{
		"enabled":         true,
		"clients":         stats.Clients,
		"subscriptions":   stats.Subscriptions,
		"watchedTables":   stats.WatchedTables,
		"eventsPublished": stats.EventsPublished,
		"eventsDropped":   stats.EventsDropped,
	})
}
