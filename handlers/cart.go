package handlers

import (
	"encoding/gob"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/mowlid/portfolio-backend/cart"
	"github.com/mowlid/portfolio-backend/database"
	"github.com/mowlid/portfolio-backend/models"
	"gorm.io/gorm"
)

const (
	sessionName       = "portfolio-session"
	cartSessionKey    = "shopping_cart"
	bookingSessionKey = "pending_booking"
)

var store *sessions.CookieStore

func init() {
	gob.Register(cart.Cart{})
	gob.Register(PendingBooking{})
}

// SetSessionStore sets the cookie store used for cart and booking state
func SetSessionStore(s *sessions.CookieStore) {
	store = s
}

// PendingBooking is a service booking handed off to the contact page
type PendingBooking struct {
	ServiceID  int64     `json:"serviceId"`
	Title      string    `json:"title"`
	PriceLabel string    `json:"priceLabel"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func getCart(session *sessions.Session) cart.Cart {
	if v, ok := session.Values[cartSessionKey].(cart.Cart); ok {
		return v
	}
	return cart.Cart{}
}

func cartResponse(c cart.Cart) gin.H {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	return gin.H{
		"items":  items,
		"count":  c.Count(),
		"totals": c.Totals(),
	}
}

// GetCart handles GET /api/cart
func GetCart(c *gin.Context) {
	session, _ := store.Get(c.Request, sessionName)
	c.JSON(http.StatusOK, cartResponse(getCart(session)))
}

// AddCartItem handles POST /api/cart/items. The service is validated
// against the services table before it enters the cart.
func AddCartItem(c *gin.Context) {
	var req struct {
		ServiceID int64 `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var service models.Service
	err := database.DB.Where("id = ? AND is_active = ?", req.ServiceID, true).First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found or unavailable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up service"})
		return
	}

	session, _ := store.Get(c.Request, sessionName)
	sessionCart := getCart(session)
	sessionCart.Add(strconv.FormatInt(service.ID, 10), service.Name, service.Description, service.Category, service.Price)

	session.Values[cartSessionKey] = sessionCart
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("⚠️ Failed to save cart session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(sessionCart))
}

// UpdateCartItem handles PATCH /api/cart/items/:id - adjust quantity by delta.
// A delta of 0 is a no-op probe; a result of zero or below removes the item.
func UpdateCartItem(c *gin.Context) {
	var req struct {
		Delta int `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session, _ := store.Get(c.Request, sessionName)
	sessionCart := getCart(session)
	sessionCart.UpdateQuantity(c.Param("id"), req.Delta)

	session.Values[cartSessionKey] = sessionCart
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(sessionCart))
}

// RemoveCartItem handles DELETE /api/cart/items/:id
func RemoveCartItem(c *gin.Context) {
	session, _ := store.Get(c.Request, sessionName)
	sessionCart := getCart(session)
	sessionCart.Remove(c.Param("id"))

	session.Values[cartSessionKey] = sessionCart
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save cart"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(sessionCart))
}

// ClearCart handles DELETE /api/cart
func ClearCart(c *gin.Context) {
	session, _ := store.Get(c.Request, sessionName)
	session.Values[cartSessionKey] = cart.Cart{}
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, cartResponse(cart.Cart{}))
}

// PutBooking handles PUT /api/booking - stash a pending service booking
// for the contact page to read back
func PutBooking(c *gin.Context) {
	var req struct {
		ServiceID int64  `json:"serviceId" binding:"required"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var service models.Service
	err := database.DB.Where("id = ? AND is_active = ?", req.ServiceID, true).First(&service).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found or unavailable"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up service"})
		return
	}

	booking := PendingBooking{
		ServiceID:  service.ID,
		Title:      service.Name,
		PriceLabel: service.Price,
		Notes:      req.Notes,
		CreatedAt:  time.Now(),
	}

	session, _ := store.Get(c.Request, sessionName)
	session.Values[bookingSessionKey] = booking
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// GetBooking handles GET /api/booking
func GetBooking(c *gin.Context) {
	session, _ := store.Get(c.Request, sessionName)
	booking, ok := session.Values[bookingSessionKey].(PendingBooking)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

// DeleteBooking handles DELETE /api/booking
func DeleteBooking(c *gin.Context) {
	session, _ := store.Get(c.Request, sessionName)
	delete(session.Values, bookingSessionKey)
	if err := session.Save(c.Request, c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
