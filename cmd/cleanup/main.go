package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mowlid/portfolio-backend/database"
	"github.com/mowlid/portfolio-backend/models"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer database.Close()

	retentionDays := 90
	if v := os.Getenv("RETENTION_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			retentionDays = parsed
		}
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	fmt.Printf("Start cleanup (retention %d days, cutoff %s)...\n", retentionDays, cutoff.Format("2006-01-02"))

	// Delete archived contact messages past retention
	result := database.DB.
		Where("status = ? AND created_at < ?", models.ContactArchived, cutoff).
		Delete(&models.Contact{})
	if result.Error != nil {
		log.Fatalf("Failed to delete archived contacts: %v", result.Error)
	}
	fmt.Printf("✅ Deleted %d archived contacts\n", result.RowsAffected)

	// Delete cancelled orders past retention
	result = database.DB.
		Where("status = ? AND created_at < ?", models.OrderCancelled, cutoff).
		Delete(&models.Order{})
	if result.Error != nil {
		log.Fatalf("Failed to delete cancelled orders: %v", result.Error)
	}
	fmt.Printf("✅ Deleted %d cancelled orders\n", result.RowsAffected)

	fmt.Println("Cleanup finished successfully")
}
