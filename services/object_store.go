package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ObjectStore is the gateway to the blob store. One interface, one
// configured backend; callers never talk to the blob store directly
// except through capability URLs issued here.
type ObjectStore interface {
	// IssueUploadURL returns a time-boxed URL granting a direct PUT of
	// the given content type to key. The URL stays valid for its full
	// TTL regardless of this process's availability.
	IssueUploadURL(ctx context.Context, key, contentType string, ttl time.Duration) (string, error)

	// IssueDownloadURL returns a time-boxed URL granting a direct GET of key.
	IssueDownloadURL(ctx context.Context, key string, ttl time.Duration) (string, error)

	// DeleteObject removes the blob at key. Deleting an absent key is
	// treated as success so retries stay idempotent.
	DeleteObject(ctx context.Context, key string) error

	// PutObject writes bytes server-side; used by the base64 direct
	// upload variant only.
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
}

// NewObjectKey generates a fresh opaque locator scoped by owner and,
// optionally, folder. Keys are never reused and never parsed for meaning
// by the metadata store.
func NewObjectKey(userID string, folderID string) string {
	if folderID != "" {
		return fmt.Sprintf("users/%s/folders/%s/%s", userID, folderID, uuid.NewString())
	}
	return fmt.Sprintf("users/%s/%s", userID, uuid.NewString())
}
