package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"nimbusdrive/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a mutex-guarded Store used by the test suite and as a
// standalone dev backend. It mirrors the Mongo implementation's semantics,
// including the atomicity of CommitUpload and PurgeFile.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[primitive.ObjectID]*models.User
	files   map[primitive.ObjectID]*models.File
	folders map[primitive.ObjectID]*models.Folder
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[primitive.ObjectID]*models.User),
		files:   make(map[primitive.ObjectID]*models.File),
		folders: make(map[primitive.ObjectID]*models.Folder),
	}
}

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Subscription == "" {
		user.Subscription = models.SubscriptionBasic
	}

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *MemoryStore) GetUser(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *MemoryStore) CreateFile(_ context.Context, file *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now

	clone := *file
	s.files[file.ID] = &clone
	return nil
}

func (s *MemoryStore) GetFile(_ context.Context, userID, fileID primitive.ObjectID) (*models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getOwnedFile(userID, fileID)
}

func (s *MemoryStore) getOwnedFile(userID, fileID primitive.ObjectID) (*models.File, error) {
	file, ok := s.files[fileID]
	if !ok || file.UserID != userID {
		return nil, models.ErrNotFound
	}
	clone := *file
	return &clone, nil
}

func (s *MemoryStore) ListFiles(_ context.Context, userID primitive.ObjectID, opts ListOptions) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.File{}
	for _, file := range s.files {
		if file.UserID != userID || file.IsArchive != opts.IsArchive {
			continue
		}
		if opts.IsStar != nil && file.IsStar != *opts.IsStar {
			continue
		}
		if opts.IsDocument != nil && file.IsDocument != *opts.IsDocument {
			continue
		}
		if opts.HasParent && !sameParent(file.FolderID, opts.ParentID) {
			continue
		}
		result = append(result, *file)
	}
	sortByCreatedDesc(result, func(f models.File) time.Time { return f.CreatedAt })
	if opts.Limit > 0 && int64(len(result)) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (s *MemoryStore) RenameFile(_ context.Context, userID, fileID primitive.ObjectID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok || file.UserID != userID {
		return models.ErrNotFound
	}
	file.Name = name
	file.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SetFileStar(_ context.Context, userID, fileID primitive.ObjectID, starred bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok || file.UserID != userID {
		return models.ErrNotFound
	}
	file.IsStar = starred
	file.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SetFileArchived(_ context.Context, userID, fileID primitive.ObjectID, archivedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok || file.UserID != userID {
		return models.ErrNotFound
	}
	file.IsArchive = archivedAt != nil
	file.ArchivedAt = archivedAt
	file.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) CountFiles(_ context.Context, userID primitive.ObjectID, activeOnly bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, file := range s.files {
		if file.UserID != userID {
			continue
		}
		if activeOnly && file.IsArchive {
			continue
		}
		count++
	}
	return count, nil
}

func (s *MemoryStore) ListFolderContents(_ context.Context, userID, folderID primitive.ObjectID) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.File{}
	for _, file := range s.files {
		if file.UserID == userID && file.FolderID != nil && *file.FolderID == folderID {
			result = append(result, *file)
		}
	}
	return result, nil
}

func (s *MemoryStore) ListStaleProvisional(_ context.Context, olderThan time.Time, limit int64) ([]models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.File{}
	for _, file := range s.files {
		if file.Size == 0 && !file.CreatedAt.After(olderThan) {
			result = append(result, *file)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	if limit > 0 && int64(len(result)) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (s *MemoryStore) DeleteProvisional(_ context.Context, fileID primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok || file.Size != 0 {
		return false, nil
	}
	delete(s.files, fileID)
	return true, nil
}

func (s *MemoryStore) CreateFolder(_ context.Context, folder *models.Folder) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if folder.ID.IsZero() {
		folder.ID = primitive.NewObjectID()
	}
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	clone := *folder
	s.folders[folder.ID] = &clone
	return nil
}

func (s *MemoryStore) GetFolder(_ context.Context, userID, folderID primitive.ObjectID) (*models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, ok := s.folders[folderID]
	if !ok || folder.UserID != userID {
		return nil, models.ErrNotFound
	}
	clone := *folder
	return &clone, nil
}

func (s *MemoryStore) ListFolders(_ context.Context, userID primitive.ObjectID, opts ListOptions) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.Folder{}
	for _, folder := range s.folders {
		if folder.UserID != userID || folder.IsArchive != opts.IsArchive {
			continue
		}
		if opts.IsStar != nil && folder.IsStar != *opts.IsStar {
			continue
		}
		if opts.IsDocument != nil && folder.IsDocument != *opts.IsDocument {
			continue
		}
		if opts.HasParent && !sameParent(folder.ParentID, opts.ParentID) {
			continue
		}
		result = append(result, *folder)
	}
	sortByCreatedDesc(result, func(f models.Folder) time.Time { return f.CreatedAt })
	if opts.Limit > 0 && int64(len(result)) > opts.Limit {
		result = result[:opts.Limit]
	}
	return result, nil
}

func (s *MemoryStore) RenameFolder(_ context.Context, userID, folderID primitive.ObjectID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, ok := s.folders[folderID]
	if !ok || folder.UserID != userID {
		return models.ErrNotFound
	}
	folder.Name = name
	folder.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SetFolderStar(_ context.Context, userID, folderID primitive.ObjectID, starred bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, ok := s.folders[folderID]
	if !ok || folder.UserID != userID {
		return models.ErrNotFound
	}
	folder.IsStar = starred
	folder.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) SetFolderArchived(_ context.Context, userID, folderID primitive.ObjectID, archivedAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, ok := s.folders[folderID]
	if !ok || folder.UserID != userID {
		return models.ErrNotFound
	}
	folder.IsArchive = archivedAt != nil
	folder.ArchivedAt = archivedAt
	folder.UpdatedAt = time.Now()
	return nil
}

func (s *MemoryStore) CountFolders(_ context.Context, userID primitive.ObjectID, activeOnly bool) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, folder := range s.folders {
		if folder.UserID != userID {
			continue
		}
		if activeOnly && folder.IsArchive {
			continue
		}
		count++
	}
	return count, nil
}

func (s *MemoryStore) ListSubfolders(_ context.Context, userID, folderID primitive.ObjectID) ([]models.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []models.Folder{}
	for _, folder := range s.folders {
		if folder.UserID == userID && folder.ParentID != nil && *folder.ParentID == folderID {
			result = append(result, *folder)
		}
	}
	return result, nil
}

func (s *MemoryStore) DeleteFolderRow(_ context.Context, userID, folderID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	folder, ok := s.folders[folderID]
	if !ok || folder.UserID != userID {
		return models.ErrNotFound
	}
	delete(s.folders, folderID)
	return nil
}

func (s *MemoryStore) CommitUpload(_ context.Context, userID, fileID primitive.ObjectID, size int64) (CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var result CommitResult

	file, ok := s.files[fileID]
	if !ok || file.UserID != userID {
		return result, models.ErrNotFound
	}

	user, ok := s.users[userID]
	if !ok {
		return result, models.ErrNotFound
	}

	delta := size - file.Size
	if delta > 0 && user.StorageUsed+delta > user.Subscription.StorageLimit() {
		// Only a dangling reservation is dropped; a committed row keeps
		// its size, blob and quota share.
		if file.IsProvisional() {
			delete(s.files, fileID)
			result.Key = file.Key
		}
		return result, models.ErrStorageLimitExceeded
	}

	user.StorageUsed += delta
	user.UpdatedAt = time.Now()
	file.Size = size
	file.UpdatedAt = time.Now()
	result.Key = file.Key
	result.Delta = delta
	return result, nil
}

func (s *MemoryStore) PurgeFile(_ context.Context, userID, fileID primitive.ObjectID) (*models.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, ok := s.files[fileID]
	if !ok || file.UserID != userID {
		return nil, models.ErrNotFound
	}
	delete(s.files, fileID)

	if file.Size > 0 {
		if user, ok := s.users[userID]; ok {
			user.StorageUsed -= file.Size
			user.UpdatedAt = time.Now()
		}
	}

	clone := *file
	return &clone, nil
}

func sameParent(parent, want *primitive.ObjectID) bool {
	if want == nil {
		return parent == nil
	}
	return parent != nil && *parent == *want
}

func sortByCreatedDesc[T any](items []T, createdAt func(T) time.Time) {
	sort.Slice(items, func(i, j int) bool {
		return createdAt(items[i]).After(createdAt(items[j]))
	})
}
