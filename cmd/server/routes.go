package main

import (
	"github.com/gin-gonic/gin"
	"github.com/huangang/taskhub/backend/internal/middleware"
	"github.com/huangang/taskhub/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS())

	// Health check
	r.GET("/health", svc.healthHandler.CheckHealth)

	// API routes; every request gets its caller resolved up front
	api := r.Group("/api", middleware.Identify(svc.authService))
	{
		// Public
		api.POST("/auth/register", svc.authHandler.Register)
		api.POST("/auth/login", svc.authHandler.Login)
		api.GET("/users", svc.userHandler.List)
		api.GET("/projects/:id", svc.projectHandler.Details)
		api.PUT("/tasks/:id/status", svc.taskHandler.UpdateStatus)

		// Identity required
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)

			protected.GET("/projects/mine", svc.projectHandler.Mine)
			protected.POST("/projects", svc.projectHandler.Create)
			protected.PUT("/projects/:id", svc.projectHandler.Update)
			protected.DELETE("/projects/:id", svc.projectHandler.Delete)
			protected.POST("/projects/:id/members", svc.projectHandler.AddMember)
			protected.POST("/projects/:id/tasks", svc.taskHandler.Create)
		}
	}
}
