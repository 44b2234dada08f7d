package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/studyflow/internal/handlers"
	"github.com/thereayou/studyflow/internal/middleware"
	"github.com/thereayou/studyflow/internal/revocation"
	"github.com/thereayou/studyflow/pkg/auth"
)

type routeDeps struct {
	JWTManager *auth.JWTManager
	Revoked    revocation.Store
	DB         handlers.Pinger

	AuthH     *handlers.AuthHandler
	NoteH     *handlers.NoteHandler
	ProgressH *handlers.ProgressHandler
	WSH       *handlers.WebSocketHandler
}

func APIEndpoints(r *gin.Engine, d routeDeps) {
	r.GET("/health", handlers.Health(d.DB))

	api := r.Group("/api")

	// Auth endpoints
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", d.AuthH.Register)
		authGroup.POST("/login", d.AuthH.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(d.JWTManager, d.Revoked))
	{
		protected.POST("/auth/logout", d.AuthH.Logout)
		protected.GET("/users/me", d.AuthH.Me)

		protected.GET("/notes", d.NoteH.List)
		protected.POST("/notes", d.NoteH.Create)
		protected.PUT("/notes/:id", d.NoteH.Update)

		protected.POST("/stats/complete-session", d.ProgressH.CompleteSession)
		protected.POST("/feedback", d.ProgressH.SubmitFeedback)

		protected.GET("/game-progress", d.ProgressH.ListGameProgress)
		protected.POST("/game-progress", d.ProgressH.RecordGameProgress)
	}

	api.GET("/ws", middleware.WSAuthMiddleware(d.JWTManager, d.Revoked), d.WSH.HandleWebSocket)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
}
