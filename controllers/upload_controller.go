package controllers

import (
	"nimbusdrive/middleware"
	"nimbusdrive/services"
	"nimbusdrive/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UploadController struct {
	uploadService *services.UploadService
}

type reserveRequest struct {
	Name        string `json:"name" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	FolderID    string `json:"folderId"`
	Base64Data  string `json:"base64Data"`
}

type commitRequest struct {
	FileID string `json:"fileId" binding:"required"`
	Size   *int64 `json:"size" binding:"required"`
}

func NewUploadController(uploadService *services.UploadService) *UploadController {
	return &UploadController{uploadService: uploadService}
}

// Upload reserves a client-direct upload, or performs the whole transfer
// server-side when a base64 payload is inlined in the request.
func (uc *UploadController) Upload(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var req reserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid upload request", err.Error())
		return
	}

	var folderID *primitive.ObjectID
	if req.FolderID != "" {
		id, err := primitive.ObjectIDFromHex(req.FolderID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid folderId", nil)
			return
		}
		folderID = &id
	}

	if req.Base64Data != "" {
		file, err := uc.uploadService.UploadDirect(c.Request.Context(), userID, req.Name, req.ContentType, folderID, req.Base64Data)
		if err != nil {
			respondError(c, err, "Failed to upload file")
			return
		}
		utils.CreatedResponse(c, "File uploaded", gin.H{
			"fileId": file.ID,
			"key":    file.Key,
		})
		return
	}

	reservation, err := uc.uploadService.Reserve(c.Request.Context(), userID, req.Name, req.ContentType, folderID)
	if err != nil {
		respondError(c, err, "Failed to reserve upload")
		return
	}

	utils.CreatedResponse(c, "Upload reserved", reservation)
}

// Complete finalizes a reservation with the uploaded byte count.
func (uc *UploadController) Complete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var req commitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid commit request", err.Error())
		return
	}

	fileID, err := primitive.ObjectIDFromHex(req.FileID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid fileId", nil)
		return
	}
	if *req.Size < 0 {
		utils.BadRequestResponse(c, "Invalid size", nil)
		return
	}

	if err := uc.uploadService.Commit(c.Request.Context(), userID, fileID, *req.Size); err != nil {
		respondError(c, err, "Failed to complete upload")
		return
	}

	utils.SuccessResponse(c, "Upload completed", nil)
}
