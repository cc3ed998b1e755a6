package main

import (
	"context"
	"fmt"
	"log"

	"playbox/internal/api/routes"
	"playbox/internal/config"
	"playbox/internal/engine"
	"playbox/internal/models"
	"playbox/internal/notify"
	"playbox/internal/services"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize database
	if err := models.InitDB(cfg); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Create default admin if database is empty
	authService := services.NewAuthService(cfg)
	if err := authService.CreateDefaultUser(); err != nil {
		log.Printf("Warning: Failed to create default user: %v", err)
	}

	// Build the timer engine on top of the persisted units
	center := notify.NewCenter()
	eng := engine.New(services.NewUnitStore(), services.NewLogService(), center)
	if err := eng.Load(cfg.Defaults.UnitCount, cfg.Defaults.UnitPrice); err != nil {
		log.Printf("Warning: Failed to load units, starting with defaults: %v", err)
	}

	// Drive the 1-second countdown for the life of the process
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go eng.Run(ctx)

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	r := gin.Default()

	// Setup routes
	routes.SetupRoutes(r, cfg, eng, center)

	// Run server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting PlayBox server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
