package controllers

import (
	"strings"

	"nimbusdrive/middleware"
	"nimbusdrive/services"
	"nimbusdrive/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FolderController struct {
	folderService    *services.FolderService
	fileService      *services.FileService
	lifecycleService *services.LifecycleService
}

type createFolderRequest struct {
	Name       string `json:"name" binding:"required"`
	ParentID   string `json:"parentId"`
	IsDocument bool   `json:"isDocument"`
}

func NewFolderController(folderService *services.FolderService, fileService *services.FileService, lifecycleService *services.LifecycleService) *FolderController {
	return &FolderController{
		folderService:    folderService,
		fileService:      fileService,
		lifecycleService: lifecycleService,
	}
}

func (fc *FolderController) CreateFolder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid folder request", err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		utils.BadRequestResponse(c, "Folder name is required", nil)
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		id, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid parentId", nil)
			return
		}
		parentID = &id
	}

	folder, err := fc.folderService.Create(c.Request.Context(), userID, req.Name, parentID, req.IsDocument)
	if err != nil {
		respondError(c, err, "Failed to create folder")
		return
	}

	utils.CreatedResponse(c, "Folder created", folder)
}

func (fc *FolderController) ListFolders(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}

	opts, err := parseListOptions(c, "parentId")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid filter parameters", nil)
		return
	}

	folders, err := fc.folderService.List(c.Request.Context(), userID, opts)
	if err != nil {
		respondError(c, err, "Failed to list folders")
		return
	}

	utils.SuccessResponse(c, "Folders retrieved", folders)
}

func (fc *FolderController) GetFolder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	folderID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	folder, err := fc.folderService.Get(c.Request.Context(), userID, folderID)
	if err != nil {
		respondError(c, err, "Failed to get folder")
		return
	}

	utils.SuccessResponse(c, "Folder retrieved", folder)
}

func (fc *FolderController) ListFolderFiles(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	folderID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	opts, err := parseListOptions(c, "folderId")
	if err != nil {
		utils.BadRequestResponse(c, "Invalid filter parameters", nil)
		return
	}

	files, err := fc.fileService.ListInFolder(c.Request.Context(), userID, folderID, opts)
	if err != nil {
		respondError(c, err, "Failed to list folder files")
		return
	}

	utils.SuccessResponse(c, "Folder files retrieved", files)
}

func (fc *FolderController) UpdateFolder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	folderID, ok := parseObjectID(c, "id")
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
		if err := fc.lifecycleService.Rename(ctx, userID, services.ItemTypeFolder, folderID, *req.Name); err != nil {
			respondError(c, err, "Failed to rename folder")
			return
		}
	}
	if req.IsStar != nil {
		if err := fc.lifecycleService.SetStar(ctx, userID, services.ItemTypeFolder, folderID, *req.IsStar); err != nil {
			respondError(c, err, "Failed to update star")
			return
		}
	}

	folder, err := fc.folderService.Get(ctx, userID, folderID)
	if err != nil {
		respondError(c, err, "Failed to get folder")
		return
	}
	utils.SuccessResponse(c, "Folder updated", folder)
}

// DeleteFolder archives by default. With the permanent flag the delete
// cascades: contained files release their blobs and quota, subfolders
// recurse, then the folder row goes.
func (fc *FolderController) DeleteFolder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	folderID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if c.Query("permanent") == "true" {
		if err := fc.lifecycleService.Purge(ctx, userID, services.ItemTypeFolder, folderID); err != nil {
			respondError(c, err, "Failed to delete folder")
			return
		}
		utils.SuccessResponse(c, "Folder permanently deleted", nil)
		return
	}

	if err := fc.lifecycleService.Archive(ctx, userID, services.ItemTypeFolder, folderID); err != nil {
		respondError(c, err, "Failed to archive folder")
		return
	}
	utils.SuccessResponse(c, "Folder archived", nil)
}

func (fc *FolderController) RestoreFolder(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "User not authenticated")
		return
	}
	folderID, ok := parseObjectID(c, "id")
	if !ok {
		return
	}

	if err := fc.lifecycleService.Restore(c.Request.Context(), userID, services.ItemTypeFolder, folderID); err != nil {
		respondError(c, err, "Failed to restore folder")
		return
	}
	utils.SuccessResponse(c, "Folder restored", nil)
}
