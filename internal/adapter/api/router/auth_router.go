package router

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/adapter/api/handler"
	"playverse/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, authLimiter *middleware.RateLimiter) {
	authHandler := handler.GetAuthHandler()

	auth := e.Group("/v1/auth")

	// Credential endpoints are rate limited per IP
	auth.POST("/register", authHandler.Register, authLimiter.Limit)
	auth.POST("/login", authHandler.Login, authLimiter.Limit)
	auth.POST("/refresh", authHandler.RefreshToken)

	auth.GET("/me", authHandler.Me, authMiddleware.Authenticate)
}
