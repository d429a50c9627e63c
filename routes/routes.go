package routes

import (
	"nimbusdrive/config"
	"nimbusdrive/services"
	"nimbusdrive/store"

	"github.com/gin-gonic/gin"
)

// ServiceContainer holds all services and dependencies.
type ServiceContainer struct {
	Store     store.Store
	Objects   services.ObjectStore
	JWTSecret string

	AuthService      *services.AuthService
	UploadService    *services.UploadService
	FileService      *services.FileService
	FolderService    *services.FolderService
	LifecycleService *services.LifecycleService
	StorageService   *services.StorageService
}

// NewServiceContainer wires every service against the given backends.
func NewServiceContainer(st store.Store, objects services.ObjectStore, cfg *config.Config) *ServiceContainer {
	return &ServiceContainer{
		Store:     st,
		Objects:   objects,
		JWTSecret: cfg.JWTSecret,

		AuthService:      services.NewAuthService(st, cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiration),
		UploadService:    services.NewUploadService(st, objects, cfg.UploadURLTTL, cfg.DownloadURLTTL),
		FileService:      services.NewFileService(st),
		FolderService:    services.NewFolderService(st),
		LifecycleService: services.NewLifecycleService(st, objects),
		StorageService:   services.NewStorageService(st),
	}
}

// SetupRoutes registers all API route groups.
func SetupRoutes(api *gin.RouterGroup, container *ServiceContainer) {
	RegisterAuthRoutes(api, container)
	RegisterUploadRoutes(api, container)
	RegisterFileRoutes(api, container)
	RegisterFolderRoutes(api, container)
	RegisterStorageRoutes(api, container)
}
