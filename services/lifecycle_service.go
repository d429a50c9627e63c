package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nimbusdrive/models"
	"nimbusdrive/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemType selects which collection a lifecycle operation targets.
type ItemType string

const (
	ItemTypeFile   ItemType = "file"
	ItemTypeFolder ItemType = "folder"
)

// LifecycleService drives File/Folder transitions between Active,
// Archived and gone-for-good. The storage counter is touched only on the
// permanent-delete path; archive, restore, star and rename never change it.
type LifecycleService struct {
	store   store.Store
	objects ObjectStore
}

func NewLifecycleService(st store.Store, objects ObjectStore) *LifecycleService {
	return &LifecycleService{store: st, objects: objects}
}

// Archive moves an item to the trash. Archiving an already-archived item
// is a no-op success; the transition is idempotent in that direction.
func (s *LifecycleService) Archive(ctx context.Context, userID primitive.ObjectID, itemType ItemType, itemID primitive.ObjectID) error {
	now := time.Now()

	switch itemType {
	case ItemTypeFile:
		file, err := s.store.GetFile(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if file.IsArchive {
			return nil
		}
		return s.store.SetFileArchived(ctx, userID, itemID, &now)
	case ItemTypeFolder:
		folder, err := s.store.GetFolder(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if folder.IsArchive {
			return nil
		}
		return s.store.SetFolderArchived(ctx, userID, itemID, &now)
	}
	return fmt.Errorf("unknown item type %q", itemType)
}

// Restore brings an archived item back. Restoring an item that is not
// archived reports not-found, matching the trash view's perspective.
func (s *LifecycleService) Restore(ctx context.Context, userID primitive.ObjectID, itemType ItemType, itemID primitive.ObjectID) error {
	switch itemType {
	case ItemTypeFile:
		file, err := s.store.GetFile(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if !file.IsArchive {
			return models.ErrNotFound
		}
		return s.store.SetFileArchived(ctx, userID, itemID, nil)
	case ItemTypeFolder:
		folder, err := s.store.GetFolder(ctx, userID, itemID)
		if err != nil {
			return err
		}
		if !folder.IsArchive {
			return models.ErrNotFound
		}
		return s.store.SetFolderArchived(ctx, userID, itemID, nil)
	}
	return fmt.Errorf("unknown item type %q", itemType)
}

// Purge permanently deletes an item, allowed from Active or Archived.
// For files the blob is deleted before the row so a crash can never leave
// a quota-counted row pointing at a missing blob; an already-missing blob
// counts as deleted so retries stay idempotent.
func (s *LifecycleService) Purge(ctx context.Context, userID primitive.ObjectID, itemType ItemType, itemID primitive.ObjectID) error {
	switch itemType {
	case ItemTypeFile:
		return s.purgeFile(ctx, userID, itemID)
	case ItemTypeFolder:
		return s.purgeFolder(ctx, userID, itemID)
	}
	return fmt.Errorf("unknown item type %q", itemType)
}

func (s *LifecycleService) purgeFile(ctx context.Context, userID, fileID primitive.ObjectID) error {
	file, err := s.store.GetFile(ctx, userID, fileID)
	if err != nil {
		return err
	}

	// blob first: if this fails we abort before touching row or quota
	if err := s.objects.DeleteObject(ctx, file.Key); err != nil {
		return fmt.Errorf("failed to delete blob for file %s: %w", fileID.Hex(), err)
	}

	_, err = s.store.PurgeFile(ctx, userID, fileID)
	return err
}

// purgeFolder cascades: every contained file is purged with full blob and
// quota release, subfolders recurse, then the folder row itself goes.
func (s *LifecycleService) purgeFolder(ctx context.Context, userID, folderID primitive.ObjectID) error {
	if _, err := s.store.GetFolder(ctx, userID, folderID); err != nil {
		return err
	}

	files, err := s.store.ListFolderContents(ctx, userID, folderID)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := s.purgeFile(ctx, userID, file.ID); err != nil {
			return err
		}
	}

	subfolders, err := s.store.ListSubfolders(ctx, userID, folderID)
	if err != nil {
		return err
	}
	for _, sub := range subfolders {
		if err := s.purgeFolder(ctx, userID, sub.ID); err != nil {
			return err
		}
	}

	return s.store.DeleteFolderRow(ctx, userID, folderID)
}

// SetStar flips the star flag; valid in Active or Archived state, no
// other side effect.
func (s *LifecycleService) SetStar(ctx context.Context, userID primitive.ObjectID, itemType ItemType, itemID primitive.ObjectID, starred bool) error {
	switch itemType {
	case ItemTypeFile:
		return s.store.SetFileStar(ctx, userID, itemID, starred)
	case ItemTypeFolder:
		return s.store.SetFolderStar(ctx, userID, itemID, starred)
	}
	return fmt.Errorf("unknown item type %q", itemType)
}

// Rename changes the display name. An empty or whitespace-only name
// silently retains the prior one; the operation still reports success.
func (s *LifecycleService) Rename(ctx context.Context, userID primitive.ObjectID, itemType ItemType, itemID primitive.ObjectID, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	switch itemType {
	case ItemTypeFile:
		return s.store.RenameFile(ctx, userID, itemID, trimmed)
	case ItemTypeFolder:
		return s.store.RenameFolder(ctx, userID, itemID, trimmed)
	}
	return fmt.Errorf("unknown item type %q", itemType)
}
