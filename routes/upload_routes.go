package routes

import (
	"nimbusdrive/controllers"
	"nimbusdrive/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterUploadRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	uploadController := controllers.NewUploadController(container.UploadService)

	upload := rg.Group("/upload")
	upload.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		upload.POST("", uploadController.Upload)              // POST /upload (reserve or base64 direct)
		upload.POST("/complete", uploadController.Complete)   // POST /upload/complete
	}
}
