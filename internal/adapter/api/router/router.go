package router

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware, authLimiter *middleware.RateLimiter) {
	SetupAuthRouter(e, authMiddleware, authLimiter)
	SetupUserRouter(e, authMiddleware, adminMiddleware)
	SetupGameRouter(e, authMiddleware, adminMiddleware)
	SetupChatRouter(e, authMiddleware)
	SetupForumRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupLoyaltyRouter(e, authMiddleware, adminMiddleware)
	SetupHealthRouter(e)
}
