package services

import (
	"context"
	"fmt"
	"strings"

	"nimbusdrive/models"
	"nimbusdrive/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FolderService struct {
	store store.Store
}

// FolderWithContents is the detail view: the folder plus its active
// children, newest first.
type FolderWithContents struct {
	models.Folder
	Files      []models.File   `json:"files"`
	Subfolders []models.Folder `json:"subfolders"`
}

func NewFolderService(st store.Store) *FolderService {
	return &FolderService{store: st}
}

func (s *FolderService) Create(ctx context.Context, userID primitive.ObjectID, name string, parentID *primitive.ObjectID, isDocument bool) (*models.Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("folder name is required")
	}
	if parentID != nil {
		if _, err := s.store.GetFolder(ctx, userID, *parentID); err != nil {
			return nil, err
		}
	}

	folder := &models.Folder{
		Name:       name,
		UserID:     userID,
		ParentID:   parentID,
		IsDocument: isDocument,
	}
	if err := s.store.CreateFolder(ctx, folder); err != nil {
		return nil, err
	}
	return folder, nil
}

func (s *FolderService) List(ctx context.Context, userID primitive.ObjectID, opts store.ListOptions) ([]models.Folder, error) {
	return s.store.ListFolders(ctx, userID, opts)
}

func (s *FolderService) Get(ctx context.Context, userID, folderID primitive.ObjectID) (*FolderWithContents, error) {
	folder, err := s.store.GetFolder(ctx, userID, folderID)
	if err != nil {
		return nil, err
	}

	childOpts := store.ListOptions{IsArchive: false, HasParent: true, ParentID: &folderID}
	files, err := s.store.ListFiles(ctx, userID, childOpts)
	if err != nil {
		return nil, err
	}
	subfolders, err := s.store.ListFolders(ctx, userID, childOpts)
	if err != nil {
		return nil, err
	}

	return &FolderWithContents{Folder: *folder, Files: files, Subfolders: subfolders}, nil
}
