package router

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/adapter/api/handler"
	"playverse/internal/adapter/api/middleware"
)

func SetupGameRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	gameHandler := handler.GetGameHandler()

	// Catalog browsing is public
	games := e.Group("/v1/games")
	games.GET("", gameHandler.ListGames)
	games.GET("/:id", gameHandler.GetGame)
	games.GET("/slug/:slug", gameHandler.GetGameBySlug)

	// Catalog management is back-office only
	admin := e.Group("/v1/admin/games")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.POST("", gameHandler.CreateGame)
	admin.PUT("/:id", gameHandler.UpdateGame)
	admin.PUT("/:id/featured", gameHandler.SetFeatured)
	admin.DELETE("/:id", gameHandler.DeleteGame)
}
