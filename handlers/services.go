package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mowlid/portfolio-backend/database"
	"github.com/mowlid/portfolio-backend/models"
	"gorm.io/gorm"
)

// GetServices handles GET /api/services - List services, newest first
func GetServices(c *gin.Context) {
	query := database.DB.Model(&models.Service{})

	// Public callers only see active services; the admin dashboard passes
	// includeInactive=true
	if c.Query("includeInactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var services []models.Service
	if err := query.Order("created_at DESC").Find(&services).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services})
}

type serviceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       string  `json:"price" binding:"required"`
	Category    string  `json:"category"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   int     `json:"sortOrder"`
	IconURL     *string `json:"iconUrl"`
}

// CreateService handles POST /api/services
func CreateService(c *gin.Context) {
	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		IsActive:    true,
		SortOrder:   req.SortOrder,
		IconURL:     req.IconURL,
	}
	if service.Category == "" {
		service.Category = "Service"
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := database.DB.Create(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	changeHub.NotifyChange("services", "insert", service.ID)
	c.JSON(http.StatusCreated, gin.H{"service": service})
}

// UpdateService handles PUT /api/services/:id
func UpdateService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var service models.Service
	if err := database.DB.First(&service, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch service"})
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	service.Name = req.Name
	service.Description = req.Description
	service.Price = req.Price
	if req.Category != "" {
		service.Category = req.Category
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}
	service.SortOrder = req.SortOrder
	service.IconURL = req.IconURL

	if err := database.DB.Save(&service).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}

	changeHub.NotifyChange("services", "update", service.ID)
	c.JSON(http.StatusOK, gin.H{"service": service})
}

// DeleteService handles DELETE /api/services/:id
func DeleteService(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	result := database.DB.Delete(&models.Service{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	changeHub.NotifyChange("services", "delete", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
