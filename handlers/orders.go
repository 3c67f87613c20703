package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mowlid/portfolio-backend/database"
	"github.com/mowlid/portfolio-backend/models"
	"gorm.io/gorm"
)

// newOrderReference generates a short public order reference
func newOrderReference() string {
	return fmt.Sprintf("ORD-%s", strings.ToUpper(uuid.NewString()[:8]))
}

type checkoutRequest struct {
	CustomerName   string  `json:"customerName" binding:"required"`
	CustomerEmail  string  `json:"customerEmail" binding:"required,email"`
	CustomerPhone  string  `json:"customerPhone"`
	AddressStreet  *string `json:"addressStreet"`
	AddressCity    *string `json:"addressCity"`
	AddressPostal  *string `json:"addressPostal"`
	AddressCountry *string `json:"addressCountry"`
}

// Checkout handles POST /api/orders/checkout - one-shot submit of the
// session cart as an order. Totals are derived server-side from the cart;
// nothing from the client is trusted for pricing.
func Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	session, _ := store.Get(c.Request, sessionName)
	sessionCart := getCart(session)
	if len(sessionCart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	items := make(models.OrderItems, 0, len(sessionCart.Items))
	for _, item := range sessionCart.Items {
		items = append(items, models.OrderItem{
			ID:          item.ID,
			Title:       item.Title,
			Description: item.Description,
			Price:       item.Price,
			Quantity:    item.Quantity,
			Category:    item.Category,
		})
	}
	totals := sessionCart.Totals()

	order := models.Order{
		OrderID:        newOrderReference(),
		CustomerName:   req.CustomerName,
		CustomerEmail:  req.CustomerEmail,
		CustomerPhone:  req.CustomerPhone,
		AddressStreet:  req.AddressStreet,
		AddressCity:    req.AddressCity,
		AddressPostal:  req.AddressPostal,
		AddressCountry: req.AddressCountry,
		Items:          items,
		Subtotal:       totals.Subtotal,
		Tax:            totals.Tax,
		Total:          totals.Total,
		Status:         models.OrderPending,
	}

	if err := database.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	// Drain the cart only after the order is safely stored
	delete(session.Values, cartSessionKey)
	if err := session.Save(c.Request, c.Writer); err != nil {
		log.Printf("⚠️ Failed to drain cart after checkout %s: %v", order.OrderID, err)
	}

	changeHub.NotifyChange("orders", "insert", order.ID)
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

// GetOrders handles GET /api/orders - List orders with filters
func GetOrders(c *gin.Context) {
	query := database.DB.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if email := c.Query("email"); email != "" {
		query = query.Where("customer_email = ?", email)
	}

	// Pagination
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}
	offset := 0
	if offsetStr := c.Query("offset"); offsetStr != "" {
		if parsed, err := strconv.Atoi(offsetStr); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	var orders []models.Order
	var total int64

	query.Count(&total)

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// GetOrder handles GET /api/orders/:id
func GetOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var order models.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// UpdateOrderStatus handles PATCH /api/orders/:id/status
func UpdateOrderStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown order status"})
		return
	}

	var order models.Order
	if err := database.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}

	now := time.Now()
	if err := database.DB.Model(&order).Updates(map[string]interface{}{
		"status":     req.Status,
		"updated_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order status"})
		return
	}
	order.Status = req.Status
	order.UpdatedAt = &now

	changeHub.NotifyChange("orders", "update", order.ID)
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// DeleteOrder handles DELETE /api/orders/:id
func DeleteOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	result := database.DB.Delete(&models.Order{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	changeHub.NotifyChange("orders", "delete", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
