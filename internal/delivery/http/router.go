package http

import (
	"github.com/gin-gonic/gin"
	"github.com/lwindle/MeetMoment/internal/delivery/http/handler"
	"github.com/lwindle/MeetMoment/internal/delivery/http/middleware"
)

type Router struct {
	authHandler    *handler.AuthHandler
	feedHandler    *handler.FeedHandler
	chatHandler    *handler.ChatHandler
	authMiddleware *middleware.AuthMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	feedHandler *handler.FeedHandler,
	chatHandler *handler.ChatHandler,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		authHandler:    authHandler,
		feedHandler:    feedHandler,
		chatHandler:    chatHandler,
		authMiddleware: authMiddleware,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.Default()

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authHandler.Register)
			auth.POST("/login", r.authHandler.Login)
			auth.POST("/logout", r.authMiddleware.RequireAuth(), r.authHandler.Logout)
			auth.GET("/me", r.authMiddleware.RequireAuth(), r.authHandler.Me)
		}

		// Protected routes
		protected := v1.Group("")
		protected.Use(r.authMiddleware.RequireAuth())
		{
			// Feed routes
			feed := protected.Group("/feed")
			{
				feed.GET("", r.feedHandler.GetFeed)
				feed.POST("/reset", r.feedHandler.ResetFeed)
			}

			// Chat routes
			chat := protected.Group("/chat")
			{
				chat.GET("/personas", r.chatHandler.GetPersonas)
				chat.POST("/persona", r.chatHandler.SetPersona)
				chat.POST("/send", r.chatHandler.Send)
				chat.GET("/messages", r.chatHandler.GetMessages)
				chat.POST("/close", r.chatHandler.CloseSession)
			}
		}
	}

	return router
}
