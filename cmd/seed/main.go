package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mowlid/portfolio-backend/database"
	"github.com/mowlid/portfolio-backend/models"
	"golang.org/x/crypto/bcrypt"
)

func strPtr(s string) *string { return &s }

var sampleServices = []models.Service{
	{
		Name:        "Web Development",
		Description: "Responsive websites and web applications built with modern frameworks.",
		Price:       "$100",
		Category:    "Development",
		IsActive:    true,
		SortOrder:   1,
	},
	{
		Name:        "UI/UX Design",
		Description: "User interface and experience design from wireframe to polished mockup.",
		Price:       "$80",
		Category:    "Design",
		IsActive:    true,
		SortOrder:   2,
	},
	{
		Name:        "SEO Audit",
		Description: "Full technical and content audit with an actionable improvement plan.",
		Price:       "$60",
		Category:    "Marketing",
		IsActive:    true,
		SortOrder:   3,
	},
	{
		Name:        "Consulting Call",
		Description: "One hour of architecture and strategy consulting.",
		Price:       "Contact for pricing",
		Category:    "Consulting",
		IsActive:    true,
		SortOrder:   4,
	},
}

var sampleProjects = []models.Project{
	{
		Title:       "E-commerce Storefront",
		Description: "Full-stack storefront with cart, checkout, and admin dashboard.",
		ImageURL:    strPtr("https://via.placeholder.com/800x450/1a1a2e/FFFFFF?text=Storefront"),
		LiveURL:     strPtr("https://example.com/storefront"),
		Tags:        models.JSONB{Data: map[string]interface{}{"stack": []string{"React", "Go", "Postgres"}}},
		Featured:    true,
	},
	{
		Title:       "Analytics Dashboard",
		Description: "Real-time metrics dashboard with live chart updates over WebSockets.",
		ImageURL:    strPtr("https://via.placeholder.com/800x450/16213e/FFFFFF?text=Dashboard"),
		RepoURL:     strPtr("https://github.com/mowlid/analytics-dashboard"),
		Tags:        models.JSONB{Data: map[string]interface{}{"stack": []string{"Vue", "Go", "NATS"}}},
		Featured:    true,
	},
	{
		Title:       "Recipe Sharing App",
		Description: "Community recipe app with image uploads and full-text search.",
		ImageURL:    strPtr("https://via.placeholder.com/800x450/0f3460/FFFFFF?text=Recipes"),
		Tags:        models.JSONB{Data: map[string]interface{}{"stack": []string{"Next.js", "Supabase"}}},
		Featured:    false,
	},
}

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

	fmt.Println("🌱 Starting seed...")

	// Admin account
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
		log.Println("⚠️ ADMIN_PASSWORD not set, using default. Change it immediately.")
	}

	var existing int64
	database.DB.Model(&models.User{}).Where("username = ?", username).Count(&existing)
	if existing > 0 {
		fmt.Printf("⏭️  Admin user %q already exists, skipping\n", username)
	} else {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin := models.User{
			Username:     username,
			Email:        email,
			Name:         "Administrator",
			PasswordHash: string(hashed),
			Role:         "admin",
			IsActive:     true,
		}
		if err := database.DB.Create(&admin).Error; err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}

		// Seed the history so the initial password counts as "recently used"
		digest := sha256.Sum256([]byte(password))
		entry := models.PasswordHistory{
			UserID:       admin.ID,
			PasswordHash: hex.EncodeToString(digest[:]),
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			log.Printf("Failed to record password history: %v", err)
		}
		fmt.Printf("✅ Created admin user %q\n", username)
	}

	// Services
	created := 0
	for _, svc := range sampleServices {
		var count int64
		database.DB.Model(&models.Service{}).Where("name = ?", svc.Name).Count(&count)
		if count > 0 {
			continue
		}
		if err := database.DB.Create(&svc).Error; err != nil {
			log.Printf("Failed to create service %q: %v", svc.Name, err)
			continue
		}
		created++
	}
	fmt.Printf("✅ Created %d services\n", created)

	// Projects
	created = 0
	for _, proj := range sampleProjects {
		var count int64
		database.DB.Model(&models.Project{}).Where("title = ?", proj.Title).Count(&count)
		if count > 0 {
			continue
		}
		if err := database.DB.Create(&proj).Error; err != nil {
			log.Printf("Failed to create project %q: %v", proj.Title, err)
			continue
		}
		created++
	}
	fmt.Printf("✅ Created %d projects\n", created)

	fmt.Println("✅ All seeding completed.")
}
