package routes

import (
	"nimbusdrive/controllers"
	"nimbusdrive/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterFileRoutes(rg *gin.RouterGroup, container *ServiceContainer) {
	fileController := controllers.NewFileController(container.FileService, container.UploadService, container.LifecycleService)

	files := rg.Group("/files")
	files.Use(middleware.AuthMiddleware(container.JWTSecret))
	{
		files.GET("", fileController.ListFiles)                 // GET /files
		files.GET("/:id", fileController.GetFile)               // GET /files/:id
		files.PATCH("/:id", fileController.UpdateFile)          // PATCH /files/:id (rename, star)
		files.DELETE("/:id", fileController.DeleteFile)         // DELETE /files/:id (?permanent=true purges)
		files.POST("/:id/restore", fileController.RestoreFile)  // POST /files/:id/restore
		files.GET("/:id/download", fileController.DownloadFile) // GET /files/:id/download (signed URL)
	}
}
