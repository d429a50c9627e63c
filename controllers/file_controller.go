package controllers

import (
	"nimbusdrive/middleware"
	"nimbusdrive/services"
	"nimbusdrive/utils"

	"github.com/gin-gonic/gin"
)

type FileController struct {
	fileService      *services.FileService
	uploadService    *services.UploadService
	lifecycleService *services.LifecycleService
}

type updateItemRequest struct {
	Name   *string `json:"name"`
	IsStar *bool   `json:"isStar"`
}

func NewFileController(fileService *services.FileService, uploadService *services.UploadService, lifecycleService *services.LifecycleService) *FileController {
	return &FileController{
		fileService:      fileService,
		uploadService:    uploadService,
		lifecycleService: lifecycleService,
	}
}

func (fc *FileController) ListFiles(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	opts, err := parseListOptions(c, "folderId")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid filter parameters", nil)
		return
	}

	files, err := fc.fileService.List(c.Request.Context(), userID, opts)
	if err != nil {
		respondError(c, err, "Failed to list files")
		return
	}

	utils.SuccessResponse(c, "Files retrieved", files)
}

func (fc *FileController) GetFile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	fileID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	file, err := fc.fileService.Get(c.Request.Context(), userID, fileID)
	if err != nil {
		respondError(c, err, "Failed to get file")
		return
	}

	utils.SuccessResponse(c, "File retrieved", file)
}

// UpdateFile handles rename and star toggling. An empty name is accepted
// and ignored rather than rejected.
func (fc *FileController) UpdateFile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	fileID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid update request", err.Error())
		return
	}

	ctx := c.Request.Context()
	if req.Name != nil {
		if err := fc.lifecycleService.Rename(ctx, userID, services.ItemTypeFile, fileID, *req.Name); err != nil {
			respondError(c, err, "Failed to rename file")
			return
		}
	}
	if req.IsStar != nil {
		if err := fc.lifecycleService.SetStar(ctx, userID, services.ItemTypeFile, fileID, *req.IsStar); err != nil {
			respondError(c, err, "Failed to update star")
			return
		}
	}

	file, err := fc.fileService.Get(ctx, userID, fileID)
	if err != nil {
		respondError(c, err, "Failed to get file")
		return
	}
	utils.SuccessResponse(c, "File updated", file)
}

// DeleteFile archives by default; the permanent query flag purges the
// blob, the row and the quota in one go.
func (fc *FileController) DeleteFile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	fileID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if c.Query("permanent") == "true" {
		if err := fc.lifecycleService.Purge(ctx, userID, services.ItemTypeFile, fileID); err != nil {
			respondError(c, err, "Failed to delete file")
			return
		}
		utils.SuccessResponse(c, "File permanently deleted", nil)
		return
	}

	if err := fc.lifecycleService.Archive(ctx, userID, services.ItemTypeFile, fileID); err != nil {
		respondError(c, err, "Failed to archive file")
		return
	}
	utils.SuccessResponse(c, "File archived", nil)
}

func (fc *FileController) RestoreFile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	fileID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := fc.lifecycleService.Restore(c.Request.Context(), userID, services.ItemTypeFile, fileID); err != nil {
		respondError(c, err, "Failed to restore file")
		return
	}
	utils.SuccessResponse(c, "File restored", nil)
}

func (fc *FileController) DownloadFile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	fileID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	url, err := fc.uploadService.DownloadURL(c.Request.Context(), userID, fileID)
	if err != nil {
		respondError(c, err, "Failed to generate download URL")
		return
	}

	utils.SuccessResponse(c, "Download URL generated", gin.H{"url": url})
}
