package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/mowlid/portfolio-backend/database"
	"github.com/mowlid/portfolio-backend/handlers"
	"github.com/mowlid/portfolio-backend/natsserver"
	"github.com/mowlid/portfolio-backend/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Connect to database
	if err := database.Connect(); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
	defer database.Close()

	// Start embedded NATS server for change notifications
	natsCfg := natsserver.DefaultConfig()
	if portStr := os.Getenv("NATS_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			natsCfg.Port = port
		}
	}
	natsServer, err := natsserver.New(natsCfg)
	if err != nil {
		log.Fatalf("❌ Failed to start NATS server: %v", err)
	}
	defer natsServer.Shutdown()

	// Initialize change hub for WebSocket streaming of table changes
	changeHub := services.NewChangeHub(natsServer)
	go changeHub.Run()
	handlers.SetChangeHub(changeHub)
	log.Println("📺 Change hub initialized")

	// Cookie session store for the cart and booking handoff
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "default-dev-session-secret"
		log.Println("⚠️ SESSION_SECRET not set, using insecure dev secret")
	}
	handlers.SetSessionStore(sessions.NewCookieStore([]byte(sessionSecret)))

	// Setup Gin router
	if os.Getenv("ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// CORS middleware
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(config))

	// Health check with a DB ping
	router.GET("/health", func(c *gin.Context) {
		status := "ok"
		code := 200
		if err := database.Ping(); err != nil {
			status = "degraded"
			code = 503
			log.Printf("⚠️ Health check DB ping failed: %v", err)
		}
		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// WebSocket route for live table changes (outside /api group)
	router.GET("/ws/changes", handlers.HandleChangeWebSocket)

	// API Routes
	api := router.Group("/api")
	{
		// Change hub stats
		api.GET("/changes/stats", handlers.GetChangeHubStats)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", handlers.Login)

			authed := auth.Group("")
			authed.Use(handlers.AuthMiddleware())
			{
				authed.GET("/me", handlers.GetMe)
				authed.POST("/change-password", handlers.ChangePassword)
			}
		}

		// Services (public read, admin mutate)
		servicesGroup := api.Group("/services")
		{
			servicesGroup.GET("", handlers.GetServices)

			adminServices := servicesGroup.Group("")
			adminServices.Use(handlers.AuthMiddleware())
			{
				adminServices.POST("", handlers.CreateService)
				adminServices.PUT("/:id", handlers.UpdateService)
				adminServices.DELETE("/:id", handlers.DeleteService)
			}
		}

		// Projects (public read, admin mutate)
		projects := api.Group("/projects")
		{
			projects.GET("", handlers.GetProjects)

			adminProjects := projects.Group("")
			adminProjects.Use(handlers.AuthMiddleware())
			{
				adminProjects.POST("", handlers.CreateProject)
				adminProjects.PUT("/:id", handlers.UpdateProject)
				adminProjects.DELETE("/:id", handlers.DeleteProject)
			}
		}

		// Cart routes (cookie session, public)
		cartGroup := api.Group("/cart")
		{
			cartGroup.GET("", handlers.GetCart)
			cartGroup.POST("/items", handlers.AddCartItem)
			cartGroup.PATCH("/items/:id", handlers.UpdateCartItem)
			cartGroup.DELETE("/items/:id", handlers.RemoveCartItem)
			cartGroup.DELETE("", handlers.ClearCart)
		}

		// Booking handoff for the contact page
		api.PUT("/booking", handlers.PutBooking)
		api.GET("/booking", handlers.GetBooking)
		api.DELETE("/booking", handlers.DeleteBooking)

		// Orders: public one-shot checkout, admin management
		orders := api.Group("/orders")
		{
			orders.POST("/checkout", handlers.Checkout)

			adminOrders := orders.Group("")
			adminOrders.Use(handlers.AuthMiddleware())
			{
				adminOrders.GET("", handlers.GetOrders)
				adminOrders.GET("/:id", handlers.GetOrder)
				adminOrders.PATCH("/:id/status", handlers.UpdateOrderStatus)
				adminOrders.DELETE("/:id", handlers.DeleteOrder)
			}
		}

		// Contacts: public submit, admin management
		contacts := api.Group("/contacts")
		{
			contacts.POST("", handlers.CreateContact)

			adminContacts := contacts.Group("")
			adminContacts.Use(handlers.AuthMiddleware())
			{
				adminContacts.GET("", handlers.GetContacts)
				adminContacts.PATCH("/:id/status", handlers.UpdateContactStatus)
				adminContacts.DELETE("/:id", handlers.DeleteContact)
			}
		}

		// Admin user provisioning
		admin := api.Group("/admin")
		admin.Use(handlers.AuthMiddleware())
		{
			admin.GET("/users", handlers.GetUsers)
			admin.POST("/users", handlers.CreateUser)
		}
	}

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}

	log.Printf("🚀 Server running on http://localhost:%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
