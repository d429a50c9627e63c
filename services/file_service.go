package services

import (
	"context"

	"nimbusdrive/models"
	"nimbusdrive/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FileService serves file metadata reads; all mutation goes through the
// upload coordinator or the lifecycle service.
type FileService struct {
	store store.Store
}

func NewFileService(st store.Store) *FileService {
	return &FileService{store: st}
}

func (s *FileService) List(ctx context.Context, userID primitive.ObjectID, opts store.ListOptions) ([]models.File, error) {
	return s.store.ListFiles(ctx, userID, opts)
}

func (s *FileService) Get(ctx context.Context, userID, fileID primitive.ObjectID) (*models.File, error) {
	return s.store.GetFile(ctx, userID, fileID)
}

// ListInFolder lists files directly inside an owned folder, honoring the
// archive/star filters. The folder must exist and belong to the caller.
func (s *FileService) ListInFolder(ctx context.Context, userID, folderID primitive.ObjectID, opts store.ListOptions) ([]models.File, error) {
	if _, err := s.store.GetFolder(ctx, userID, folderID); err != nil {
		return nil, err
	}
	opts.HasParent = true
	opts.ParentID = &folderID
	return s.store.ListFiles(ctx, userID, opts)
}
