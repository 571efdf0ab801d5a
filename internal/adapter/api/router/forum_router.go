package router

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/adapter/api/handler"
	"playverse/internal/adapter/api/middleware"
)

func SetupForumRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	forumHandler := handler.GetForumHandler()

	forums := e.Group("/v1/forums")

	// Reading is public, writing requires a session
	forums.GET("", forumHandler.ListTopics)
	forums.GET("/:id", forumHandler.GetTopic)
	forums.GET("/:id/posts", forumHandler.ListPosts)

	forums.POST("", forumHandler.CreateTopic, authMiddleware.Authenticate)
	forums.PUT("/:id", forumHandler.UpdateTopic, authMiddleware.Authenticate)
	forums.DELETE("/:id", forumHandler.DeleteTopic, authMiddleware.Authenticate)
	forums.POST("/:id/posts", forumHandler.CreatePost, authMiddleware.Authenticate)
}
