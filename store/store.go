package store

import (
	"context"
	"time"

	"nimbusdrive/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListOptions enumerates every supported listing filter explicitly.
// IsArchive always applies (active vs. trashed views are disjoint);
// the pointer fields apply only when non-nil.
type ListOptions struct {
	IsArchive  bool
	IsStar     *bool
	IsDocument *bool

	// HasParent scopes the listing to a containment level: with a nil
	// ParentID it matches root-level items only, otherwise items directly
	// under ParentID. When false, containment is not filtered at all.
	HasParent bool
	ParentID  *primitive.ObjectID

	Limit int64
}

// CommitResult carries the outcome of a commit. On a quota rejection Key
// is populated only when a provisional row was dropped, so the caller
// knows the blob at Key is orphaned and can clean it up; a rejected
// recommit of a committed row leaves Key empty because that blob is
// still live.
type CommitResult struct {
	Key   string
	Delta int64 // applied change to the owner's storage counter
}

type Users interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Files interface {
	CreateFile(ctx context.Context, file *models.File) error
	GetFile(ctx context.Context, userID, fileID primitive.ObjectID) (*models.File, error)
	ListFiles(ctx context.Context, userID primitive.ObjectID, opts ListOptions) ([]models.File, error)
	RenameFile(ctx context.Context, userID, fileID primitive.ObjectID, name string) error
	SetFileStar(ctx context.Context, userID, fileID primitive.ObjectID, starred bool) error
	SetFileArchived(ctx context.Context, userID, fileID primitive.ObjectID, archivedAt *time.Time) error
	CountFiles(ctx context.Context, userID primitive.ObjectID, activeOnly bool) (int64, error)

	// ListFolderContents returns every file directly inside the folder
	// regardless of archive state; used by the cascade purge path.
	ListFolderContents(ctx context.Context, userID, folderID primitive.ObjectID) ([]models.File, error)

	// ListStaleProvisional returns provisional rows (size zero) created
	// before the cutoff, across all users; used by the reservation sweep.
	ListStaleProvisional(ctx context.Context, olderThan time.Time, limit int64) ([]models.File, error)

	// DeleteProvisional removes a row only while it is still provisional,
	// so a racing commit wins over the sweep. Reports whether a row was
	// actually removed.
	DeleteProvisional(ctx context.Context, fileID primitive.ObjectID) (bool, error)
}

type Folders interface {
	CreateFolder(ctx context.Context, folder *models.Folder) error
	GetFolder(ctx context.Context, userID, folderID primitive.ObjectID) (*models.Folder, error)
	ListFolders(ctx context.Context, userID primitive.ObjectID, opts ListOptions) ([]models.Folder, error)
	RenameFolder(ctx context.Context, userID, folderID primitive.ObjectID, name string) error
	SetFolderStar(ctx context.Context, userID, folderID primitive.ObjectID, starred bool) error
	SetFolderArchived(ctx context.Context, userID, folderID primitive.ObjectID, archivedAt *time.Time) error
	CountFolders(ctx context.Context, userID primitive.ObjectID, activeOnly bool) (int64, error)

	// ListSubfolders returns direct children regardless of archive state.
	ListSubfolders(ctx context.Context, userID, folderID primitive.ObjectID) ([]models.Folder, error)

	// DeleteFolderRow removes the folder row itself; containment handling
	// is the caller's responsibility.
	DeleteFolderRow(ctx context.Context, userID, folderID primitive.ObjectID) error
}

// Store is the metadata store. CommitUpload and PurgeFile are the only
// two operations allowed to touch the storage counter, and both must be
// atomic with their row writes.
type Store interface {
	Users
	Files
	Folders

	// CommitUpload finalizes a reservation: it verifies the size against
	// the owner's subscription limit and, in one atomic unit, records the
	// file size and increments storage_used. On quota rejection of a
	// provisional row the row is deleted and ErrStorageLimitExceeded
	// returned, with the result's Key set for blob cleanup; a rejected
	// recommit of a committed row leaves the row, its blob and the
	// counter untouched. Committing an already-committed row re-checks
	// and applies only the size delta.
	CommitUpload(ctx context.Context, userID, fileID primitive.ObjectID, size int64) (CommitResult, error)

	// PurgeFile deletes the row and decrements storage_used by its size
	// in one atomic unit, returning the removed row. A second purge of
	// the same id returns ErrNotFound and leaves the counter untouched.
	PurgeFile(ctx context.Context, userID, fileID primitive.ObjectID) (*models.File, error)
}
