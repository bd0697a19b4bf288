package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/zenbild/backend/internal/app"
	iauth "github.com/zenbild/backend/internal/auth"
	"github.com/zenbild/backend/internal/handlers"
	"github.com/zenbild/backend/internal/middleware"
	"github.com/zenbild/backend/internal/services"
)

// NewRouter builds the Gin engine, wires middleware and registers routes.
func NewRouter(db *gorm.DB, jwt *iauth.JWTService, flow *services.MagicLinkService, cfg *app.Config) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if flow == nil {
		return nil, fmt.Errorf("magic link service must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins...))

	r.NoRoute(middleware.NotFoundHandler)

	// Public surface
	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/health", healthHandler.Check)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	magicHandler := handlers.NewMagicAuthHandler(flow, jwt)
	magic := r.Group("/auth/magic")
	{
		magic.POST("/request", magicHandler.Request)
		magic.POST("/consume", magicHandler.Consume)
	}

	// Authenticated surface
	projectService, err := services.NewProjectService(db)
	if err != nil {
		return nil, err
	}
	projectHandler := handlers.NewProjectHandler(projectService)

	api := r.Group("/api")
	api.Use(middleware.Auth(jwt))

	projects := api.Group("/projects")
	{
		projects.POST("", projectHandler.Create)
		projects.GET("", projectHandler.List)
		projects.GET("/:id", projectHandler.Get)
		projects.PUT("/:id", projectHandler.Update)

		projects.POST("/:id/participants", projectHandler.AddParticipant)
		projects.GET("/:id/participants", projectHandler.ListParticipants)

		projects.POST("/:id/messages", projectHandler.PostMessage)
		projects.GET("/:id/messages", projectHandler.ListMessages)

		projects.POST("/:id/daily-logs", projectHandler.AddDailyLog)
		projects.GET("/:id/daily-logs", projectHandler.ListDailyLogs)

		projects.POST("/:id/milestones", projectHandler.AddMilestone)
		projects.GET("/:id/milestones", projectHandler.ListMilestones)

		projects.POST("/:id/payments", projectHandler.AddPayment)
	}

	api.POST("/messages/:id/annotations", projectHandler.AddAnnotation)

	return r, nil
}
