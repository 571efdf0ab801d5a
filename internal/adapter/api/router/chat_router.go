package router

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/adapter/api/handler"
	"playverse/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	chatHandler := handler.GetChatHandler()

	chats := e.Group("/v1/chats")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.CreateConversation)
	chats.GET("", chatHandler.ListConversations)
	chats.GET("/unread", chatHandler.UnreadCount)
	chats.GET("/:id", chatHandler.GetConversation)
	chats.PUT("/:id/read", chatHandler.MarkConversationRead)

	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.GET("/:id/messages", chatHandler.ListMessages)
}
