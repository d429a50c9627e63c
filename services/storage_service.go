package services

import (
	"context"

	"nimbusdrive/models"
	"nimbusdrive/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StorageService reports per-account storage statistics. Everything is
// fetched fresh per request; there is no process-wide mirror of the
// counters to drift out of date.
type StorageService struct {
	store store.Store
}

type StorageStats struct {
	Subscription models.Subscription `json:"subscription"`
	StorageUsed  int64               `json:"storageUsed"`
	StorageLimit int64               `json:"storageLimit"`
	PercentUsed  float64             `json:"percentUsed"`
	FileCount    int64               `json:"fileCount"`
	FolderCount  int64               `json:"folderCount"`
}

func NewStorageService(st store.Store) *StorageService {
	return &StorageService{store: st}
}

func (s *StorageService) Stats(ctx context.Context, userID primitive.ObjectID) (*StorageStats, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	fileCount, err := s.store.CountFiles(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	folderCount, err := s.store.CountFolders(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	limit := user.Subscription.StorageLimit()
	return &StorageStats{
		Subscription: user.Subscription,
		StorageUsed:  user.StorageUsed,
		StorageLimit: limit,
		PercentUsed:  models.PercentUsed(user.StorageUsed, limit),
		FileCount:    fileCount,
		FolderCount:  folderCount,
	}, nil
}
