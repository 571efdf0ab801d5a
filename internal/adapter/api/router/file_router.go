package router

import (
	"github.com/labstack/echo/v4"

	"playverse/internal/adapter/api/handler"
	"playverse/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	fileHandler := handler.GetFileHandler()

	files := e.Group("/v1/files")
	files.Use(authMiddleware.Authenticate)

	files.POST("", fileHandler.UploadFile)

	admin := e.Group("/v1/admin/files")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.DELETE("", fileHandler.DeleteFile)
}
