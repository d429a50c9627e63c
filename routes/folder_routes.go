package routes

import (
	"nimbusdrive/controllers"
	"nimbusdrive/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterFolderRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	folderController := controllers.NewFolderController(container.FolderService, container.FileService, container.LifecycleService)

	folders := rg.Group("/folders")
	folders.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		folders.POST("", folderController.CreateFolder)              // POST /folders
		folders.GET("", folderController.ListFolders)                // GET /folders
		folders.GET("/:id", folderController.GetFolder)              // GET /folders/:id (with active children)
		folders.GET("/:id/files", folderController.ListFolderFiles)  // GET /folders/:id/files
		folders.PATCH("/:id", folderController.UpdateFolder)         // PATCH /folders/:id (rename, star)
		folders.DELETE("/:id", folderController.DeleteFolder)        // DELETE /folders/:id (?permanent=true cascades)
		folders.POST("/:id/restore", folderController.RestoreFolder) // POST /folders/:id/restore
	}
}
