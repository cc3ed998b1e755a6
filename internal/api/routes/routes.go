package routes

import (
	"strings"

	"playbox/internal/api/handlers"
	"playbox/internal/api/middleware"
	"playbox/internal/config"
	"playbox/internal/engine"
	"playbox/internal/notify"
	"playbox/internal/services"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config, eng *engine.Engine, center *notify.Center) {
	// Initialize services
	authService := services.NewAuthService(cfg)
	logService := services.NewLogService()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, cfg)
	unitHandler := handlers.NewUnitHandler(eng, cfg)
	logsHandler := handlers.NewLogsHandler(logService, center)
	notificationHandler := handlers.NewNotificationHandler(center)
	viewHandler := handlers.NewViewHandler(eng)
	userHandler := handlers.NewUserHandler(cfg)

	// Middleware
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.ErrorHandler())

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(404, gin.H{"error": "Not found"})
			return
		}
		c.String(404, "Not found")
	})

	// Public routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"message": "PlayBox API is running",
			})
		})

		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
		}

		// Customer view (read-only, no controls)
		api.GET("/view/:id", viewHandler.GetView)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		// Auth routes (protected)
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.GetMe)

		// Unit routes (any authenticated role)
		units := protected.Group("/units")
		{
			units.GET("", unitHandler.GetUnits)
			units.GET("/:id", unitHandler.GetUnit)
			units.POST("", unitHandler.CreateUnit)
			units.PUT("/:id", unitHandler.UpdateUnit)
			units.PUT("/:id/inputs", unitHandler.SetInputs)
			units.PUT("/:id/volume", unitHandler.SetVolume)
			units.POST("/:id/mute", unitHandler.ToggleMute)
			units.POST("/:id/start", unitHandler.Start)
			units.POST("/:id/stop", unitHandler.Stop)
			units.DELETE("/:id", unitHandler.DeleteUnit)
			units.POST("/:id/undo", unitHandler.UndoDelete)
		}

		// Session log routes
		logs := protected.Group("/logs")
		{
			logs.GET("", logsHandler.GetLogs)
			logs.GET("/export", logsHandler.ExportLogs)
			logs.DELETE("", middleware.RequireRole("admin"), logsHandler.ClearLogs)
		}

		// Notification routes
		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.POST("/:id/dismiss", notificationHandler.Dismiss)
			notifications.POST("/:id/action", notificationHandler.Action)
		}

		// User management routes (admin only)
		users := protected.Group("/users")
		users.Use(middleware.RequireRole("admin"))
		{
			users.GET("", userHandler.GetUsers)
			users.GET("/:id", userHandler.GetUser)
			users.POST("", userHandler.CreateUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
			users.POST("/:id/password", userHandler.UpdatePassword)
			users.GET("/sessions", userHandler.GetSessions)
		}
	}
}
