package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/XAdnanAhmedX/JusticeHammer/config"
	"github.com/XAdnanAhmedX/JusticeHammer/db"
	"github.com/XAdnanAhmedX/JusticeHammer/handlers"
	"github.com/XAdnanAhmedX/JusticeHammer/middleware"
	"github.com/XAdnanAhmedX/JusticeHammer/models"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect both datastores; lifecycle is owned here and injected below
	databases, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect databases: %v", err)
	}
	defer databases.Close()

	// Run migrations on the primary datastore
	if err := databases.Migrate(
		&models.User{},
		&models.Session{},
		&models.Case{},
		&models.TimelineEvent{},
		&models.Evidence{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Blob store for evidence and verification uploads
	storage := services.NewStorage(cfg)

	h := handlers.New(databases, storage, cfg)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Public routes
	e.GET("/healthz", h.Health)
	e.POST("/api/login", h.Login, middleware.NewLoginRateLimiter().Middleware())
	e.POST("/api/register", h.Register, middleware.NewRegistrationRateLimiter().Middleware())

	// Authenticated routes
	api := e.Group("/api", middleware.RequireAuth(databases.Primary))
	{
		api.POST("/logout", h.Logout)
		api.GET("/me", h.Me)
		api.GET("/dashboard", h.Dashboard)
		api.POST("/create_case", h.CreateCase)

		cases := api.Group("/cases")
		cases.GET("/:id", h.GetCase)
		cases.POST("/:id/status", h.UpdateStatus)
		cases.POST("/:id/evidence", h.UploadEvidence)
		cases.GET("/:id/evidence/:evidenceID", h.DownloadEvidence)

		// Assignment is an administrative action
		cases.POST("/:id/assign", h.AssignOfficial, middleware.RequireRole(models.RoleAdmin))
		cases.POST("/:id/lawyer", h.AssignLawyer, middleware.RequireRole(models.RoleAdmin))
	}

	// Hourly cleanup of expired sessions
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if err := services.CleanupExpiredSessions(databases.Primary); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
