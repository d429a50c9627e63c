package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"nimbusdrive/models"
	"nimbusdrive/store"
	"nimbusdrive/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UploadService coordinates the two-phase upload protocol: reserve a key
// and a provisional row, let the client push bytes straight to the object
// store, then commit against the quota. Reserve never touches the storage
// counter; only Commit does.
type UploadService struct {
	store       store.Store
	objects     ObjectStore
	uploadTTL   time.Duration
	downloadTTL time.Duration
}

// Reservation is handed back to the client after a successful reserve.
type Reservation struct {
	URL    string             `json:"url"`
	FileID primitive.ObjectID `json:"fileId"`
	Key    string             `json:"key"`
}

func NewUploadService(st store.Store, objects ObjectStore, uploadTTL, downloadTTL time.Duration) *UploadService {
	return &UploadService{
		store:       st,
		objects:     objects,
		uploadTTL:   uploadTTL,
		downloadTTL: downloadTTL,
	}
}

// Reserve creates a provisional file row (size zero) and issues a
// write-capable URL bound to the new key and declared content type.
func (s *UploadService) Reserve(ctx context.Context, userID primitive.ObjectID, name, contentType string, folderID *primitive.ObjectID) (*Reservation, error) {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	if folderID != nil {
		if _, err := s.store.GetFolder(ctx, userID, *folderID); err != nil {
			return nil, err
		}
	}

	var folderHex string
	if folderID != nil {
		folderHex = folderID.Hex()
	}
	key := NewObjectKey(userID.Hex(), folderHex)

	url, err := s.objects.IssueUploadURL(ctx, key, contentType, s.uploadTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue upload URL: %w", err)
	}

	file := &models.File{
		Name:     name,
		Type:     contentType,
		Size:     0,
		Key:      key,
		UserID:   userID,
		FolderID: folderID,
	}
	if err := s.store.CreateFile(ctx, file); err != nil {
		return nil, err
	}

	return &Reservation{URL: url, FileID: file.ID, Key: key}, nil
}

// Commit finalizes a reservation with the actual byte count. On a quota
// rejection the store has already dropped the provisional row and set
// the result's Key; that orphaned blob is deleted best-effort and a
// failure there is logged, never surfaced, because the database state
// alone satisfies the caller-facing contract. A rejected recommit of a
// committed row carries no Key: the row survived and its blob stays.
func (s *UploadService) Commit(ctx context.Context, userID, fileID primitive.ObjectID, size int64) error {
	if size < 0 {
		return fmt.Errorf("invalid size %d", size)
	}

	result, err := s.store.CommitUpload(ctx, userID, fileID, size)
	if errors.Is(err, models.ErrStorageLimitExceeded) {
		if result.Key != "" {
			if derr := s.objects.DeleteObject(ctx, result.Key); derr != nil {
				utils.LogWarning(fmt.Sprintf("orphaned blob %s left for reconciliation: %v", result.Key, derr))
			}
		}
		return models.ErrStorageLimitExceeded
	}
	return err
}

// UploadDirect is the server-side base64 variant: the bytes travel
// through this process instead of a capability URL. It composes the same
// reserve/commit protocol, with a compensating blob delete if the commit
// cannot land.
func (s *UploadService) UploadDirect(ctx context.Context, userID primitive.ObjectID, name, contentType string, folderID *primitive.ObjectID, base64Data string) (*models.File, error) {
	body, err := decodeBase64Payload(base64Data)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 payload: %w", err)
	}

	reservation, err := s.Reserve(ctx, userID, name, contentType, folderID)
	if err != nil {
		return nil, err
	}

	if err := s.objects.PutObject(ctx, reservation.Key, body, contentType); err != nil {
		if _, derr := s.store.DeleteProvisional(ctx, reservation.FileID); derr != nil {
			utils.LogWarning(fmt.Sprintf("orphaned reservation %s left for sweep: %v", reservation.FileID.Hex(), derr))
		}
		return nil, err
	}

	if err := s.Commit(ctx, userID, reservation.FileID, int64(len(body))); err != nil {
		return nil, err
	}

	return s.store.GetFile(ctx, userID, reservation.FileID)
}

// DownloadURL issues a read capability URL for an owned file.
func (s *UploadService) DownloadURL(ctx context.Context, userID, fileID primitive.ObjectID) (string, error) {
	file, err := s.store.GetFile(ctx, userID, fileID)
	if err != nil {
		return "", err
	}

	url, err := s.objects.IssueDownloadURL(ctx, file.Key, s.downloadTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue download URL: %w", err)
	}
	return url, nil
}

// SweepStaleReservations deletes provisional rows older than the upload
// URL validity window together with any blob the client may have pushed.
// A commit racing the sweep wins: the row delete is guarded on size zero.
func (s *UploadService) SweepStaleReservations(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-s.uploadTTL)

	stale, err := s.store.ListStaleProvisional(ctx, cutoff, 0)
	if err != nil {
		return 0, err
	}

	var swept int
	for _, file := range stale {
		removed, err := s.store.DeleteProvisional(ctx, file.ID)
		if err != nil {
			utils.LogError("failed to sweep stale reservation "+file.ID.Hex(), err)
			continue
		}
		if !removed {
			continue
		}
		if err := s.objects.DeleteObject(ctx, file.Key); err != nil {
			utils.LogWarning(fmt.Sprintf("orphaned blob %s left for reconciliation: %v", file.Key, err))
		}
		swept++
	}
	return swept, nil
}

func decodeBase64Payload(data string) ([]byte, error) {
	// strip a data URL prefix if present
	if idx := strings.Index(data, ","); idx >= 0 && strings.Contains(data[:idx], ";base64") {
		data = data[idx+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
