package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mowlid/portfolio-backend/database"
	"github.com/mowlid/portfolio-backend/models"
	"github.com/mowlid/portfolio-backend/services"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// passwordHistoryDepth is how many recent passwords cannot be reused
const passwordHistoryDepth = 5

var breachClient = services.NewBreachClient()

// SetBreachClient overrides the breach-corpus client
func SetBreachClient(client *services.BreachClient) {
	breachClient = client
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ChangePassword handles POST /api/auth/change-password.
// Validation rules run in order and stop at the first failure.
func ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	userID := c.GetInt64("userID")
	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}

	// 1. All fields present
	if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "All password fields are required"})
		return
	}

	// 2. Current password verifies against the stored hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	// 3. Minimum length
	if len(req.NewPassword) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be at least 6 characters"})
		return
	}

	// 4. Confirmation matches
	if req.NewPassword != req.ConfirmPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New passwords do not match"})
		return
	}

	// 5. Must differ from the current password
	if req.NewPassword == req.CurrentPassword {
		c.JSON(http.StatusBadRequest, gin.H{"error": "New password must be different from the current password"})
		return
	}

	// 6. Not among the user's recent passwords
	newDigest := sha256Hex(req.NewPassword)
	var history []models.PasswordHistory
	if err := database.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Limit(passwordHistoryDepth).
		Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check password history"})
		return
	}
	for _, entry := range history {
		if entry.PasswordHash == newDigest {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Password was used recently. Choose a password you have not used before."})
			return
		}
	}

	// 7. Not in the breach corpus. An unreachable corpus does not block the
	// change (availability over strictness); the failure is logged as a risk.
	status, err := breachClient.CheckPassword(req.NewPassword)
	if err != nil {
		log.Printf("⚠️ Breach check unavailable, allowing password change: %v", err)
	} else if status == services.BreachStatusBreached {
		c.JSON(http.StatusBadRequest, gin.H{"error": "This password has been found in data breaches. Please choose a stronger, unique password."})
		return
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"password_hash":       string(hashedBytes),
		"password_changed_at": now,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	entry := models.PasswordHistory{
		UserID:       user.ID,
		PasswordHash: newDigest,
	}
	if err := database.DB.Create(&entry).Error; err != nil {
		// Password is already rotated; a missing history row only weakens
		// future reuse checks, so log and continue
		log.Printf("⚠️ Failed to record password history for user %d: %v", user.ID, err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password changed successfully"})
}
