package router

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/adapter/api/handler"
	"playverse/internal/adapter/api/middleware"
)

func SetupLoyaltyRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	loyaltyHandler := handler.GetLoyaltyHandler()

	loyalty := e.Group("/v1/loyalty")
	loyalty.Use(authMiddleware.Authenticate)

	loyalty.GET("/balance", loyaltyHandler.GetBalance)
	loyalty.GET("/coupons", loyaltyHandler.ListCoupons)
	loyalty.POST("/coupons", loyaltyHandler.RedeemCoupon)
	loyalty.POST("/coupons/use", loyaltyHandler.UseCoupon)

	admin := e.Group("/v1/admin/loyalty")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.POST("/users/:id/points", loyaltyHandler.GrantPoints)
}
