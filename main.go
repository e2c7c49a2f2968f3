package main

import (
	"net/http"
	"os"

	"github.com/Bips27/tiffinly-daily-bites/config"
	"github.com/Bips27/tiffinly-daily-bites/customization"
	"github.com/Bips27/tiffinly-daily-bites/handlers"
	"github.com/Bips27/tiffinly-daily-bites/logger"
	"github.com/Bips27/tiffinly-daily-bites/realtime"
	"github.com/Bips27/tiffinly-daily-bites/routes"
	"github.com/Bips27/tiffinly-daily-bites/wallet"

	"github.com/gin-gonic/gin"
)

func main() {
	log := logger.New("tiffinly")

	// Set Gin mode
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		gin.SetMode(gin.DebugMode)
	}

	// Load env and initialize database
	config.Load()
	config.InitDB()
	log.Infow("database connected",
		"cutoff_window", config.CutoffWindow(), "debit_timeout", config.DebitTimeout())

	// Wire the service layer
	walletSvc := wallet.NewService(config.DB, log)
	applicator := customization.NewApplicator(
		customization.NewGormMealStore(config.DB),
		walletSvc,
		customization.SystemClock{},
		config.CutoffWindow(),
		config.DebitTimeout(),
		log,
	)
	hub := realtime.NewHub()
	handlers.Setup(applicator, walletSvc, hub, log)

	// Create Gin router with default middleware (logger + recovery)
	r := gin.Default()

	// CORS middleware for frontend integration
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Tiffinly Daily Bites API",
			"version": "1.0.0",
		})
	})

	// Welcome
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🍱 Welcome to the Tiffinly Daily Bites API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"customer", "kitchen", "courier", "admin"},
		})
	})

	// Register all routes
	routes.SetupRoutes(r)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Infow("server starting", "port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalw("server failed", "error", err)
	}
}
