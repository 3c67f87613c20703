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

// GetProjects handles GET /api/projects - List projects, newest first
func GetProjects(c *gin.Context) {
	query := database.DB.Model(&models.Project{})

	if c.Query("featured") == "true" {
		query = query.Where("featured = ?", true)
	}

	var projects []models.Project
	if err := query.Order("created_at DESC").Find(&projects).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch projects"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}

type projectRequest struct {
	Title       string       `json:"title" binding:"required"`
	Description string       `json:"description"`
	ImageURL    *string      `json:"imageUrl"`
	LiveURL     *string      `json:"liveUrl"`
	RepoURL     *string      `json:"repoUrl"`
	Tags        models.JSONB `json:"tags"`
	Featured    bool         `json:"featured"`
}

// CreateProject handles POST /api/projects
func CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		LiveURL:     req.LiveURL,
		RepoURL:     req.RepoURL,
		Tags:        req.Tags,
		Featured:    req.Featured,
	}

	if err := database.DB.Create(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	changeHub.NotifyChange("projects", "insert", project.ID)
	c.JSON(http.StatusCreated, gin.H{"project": project})
}

// UpdateProject handles PUT /api/projects/:id
func UpdateProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var project models.Project
	if err := database.DB.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch project"})
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	project.Title = req.Title
	project.Description = req.Description
	project.ImageURL = req.ImageURL
	project.LiveURL = req.LiveURL
	project.RepoURL = req.RepoURL
	project.Tags = req.Tags
	project.Featured = req.Featured

	if err := database.DB.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	changeHub.NotifyChange("projects", "update", project.ID)
	c.JSON(http.StatusOK, gin.H{"project": project})
}

// DeleteProject handles DELETE /api/projects/:id
func DeleteProject(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	result := database.DB.Delete(&models.Project{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		return
	}

	changeHub.NotifyChange("projects", "delete", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
