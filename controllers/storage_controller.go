package controllers

import (
	"nimbusdrive/middleware"
	"nimbusdrive/services"
	"nimbusdrive/utils"

	"github.com/gin-gonic/gin"
)

type StorageController struct {
	storageService *services.StorageService
}

func NewStorageController(storageService *services.StorageService) *StorageController {
	return &StorageController{storageService: storageService}
}

func (sc *StorageController) GetStats(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	stats, err := sc.storageService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get storage information")
		return
	}

	utils.SuccessResponse(c, "Storage information retrieved", stats)
}
