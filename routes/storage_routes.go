package routes

import (
	"nimbusdrive/controllers"
	"nimbusdrive/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterStorageRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	storageController := controllers.NewStorageController(container.StorageService)

	storage := rg.Group("/storage")
	storage.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		storage.GET("", storageController.GetStats) // GET /storage
	}
}
