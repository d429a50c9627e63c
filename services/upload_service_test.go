package services

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"nimbusdrive/models"
	"nimbusdrive/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newUploadFixture(t *testing.T) (*UploadService, *store.MemoryStore, *fakeObjectStore, *models.User) {
	t.Helper()

	st := store.NewMemoryStore()
	objects := newFakeObjectStore()
	svc := NewUploadService(st, objects, time.Hour, time.Hour)

	user := &models.User{Email: "owner@example.com", Name: "Owner", Subscription: models.SubscriptionBasic}
	require.NoError(t, st.CreateUser(context.Background(), user))
	return svc, st, objects, user
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a provisional row and an upload URL", func(t *testing.T) {
		svc, st, _, user := newUploadFixture(t)

		res, err := svc.Reserve(ctx, user.ID, "photo.jpg", "image/jpeg", nil)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(res.Key, "users/"+user.ID.Hex()+"/"))
		assert.Equal(t, "https://blobs.test/upload/"+res.Key, res.URL)

		file, err := st.GetFile(ctx, user.ID, res.FileID)
		require.NoError(t, err)
		assert.True(t, file.IsProvisional())
		assert.Equal(t, "photo.jpg", file.Name)
		assert.Equal(t, "image/jpeg", file.Type)

		owner, err := st.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), owner.StorageUsed)
	})

	t.Run("scopes the key to the target folder", func(t *testing.T) {
		svc, st, _, user := newUploadFixture(t)

		folder := &models.Folder{Name: "docs", UserID: user.ID}
		require.NoError(t, st.CreateFolder(ctx, folder))

		res, err := svc.Reserve(ctx, user.ID, "a.txt", "text/plain", &folder.ID)
		require.NoError(t, err)
		assert.Contains(t, res.Key, "/folders/"+folder.ID.Hex()+"/")
	})

	t.Run("rejects an unknown folder", func(t *testing.T) {
		svc, _, _, user := newUploadFixture(t)

		missing := primitive.NewObjectID()
		_, err := svc.Reserve(ctx, user.ID, "a.txt", "text/plain", &missing)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("rejects an unknown user", func(t *testing.T) {
		svc, _, _, _ := newUploadFixture(t)

		_, err := svc.Reserve(ctx, primitive.NewObjectID(), "a.txt", "text/plain", nil)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("every reservation gets a distinct key", func(t *testing.T) {
		svc, _, _, user := newUploadFixture(t)

		first, err := svc.Reserve(ctx, user.ID, "a.txt", "text/plain", nil)
		require.NoError(t, err)
		second, err := svc.Reserve(ctx, user.ID, "a.txt", "text/plain", nil)
		require.NoError(t, err)
		assert.NotEqual(t, first.Key, second.Key)
	})
}

func TestCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("finalizes the reservation", func(t *testing.T) {
		svc, st, _, user := newUploadFixture(t)

		res, err := svc.Reserve(ctx, user.ID, "a.txt", "text/plain", nil)
		require.NoError(t, err)

		require.NoError(t, svc.Commit(ctx, user.ID, res.FileID, 1234))

		file, err := st.GetFile(ctx, user.ID, res.FileID)
		require.NoError(t, err)
		assert.Equal(t, int64(1234), file.Size)

		owner, err := st.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1234), owner.StorageUsed)
	})

	t.Run("rejects a negative size", func(t *testing.T) {
		svc, _, _, user := newUploadFixture(t)

		res, err := svc.Reserve(ctx, user.ID, "a.txt", "text/plain", nil)
		require.NoError(t, err)
		assert.Error(t, svc.Commit(ctx, user.ID, res.FileID, -1))
	})

	t.Run("quota rejection cleans up the uploaded blob", func(t *testing.T) {
		svc, st, objects, user := newUploadFixture(t)

		res, err := svc.Reserve(ctx, user.ID, "huge.bin", "application/octet-stream", nil)
		require.NoError(t, err)
		objects.put(res.Key, []byte("pretend this is huge"))

		err = svc.Commit(ctx, user.ID, res.FileID, models.BasicStorageLimit+1)
		assert.ErrorIs(t, err, models.ErrStorageLimitExceeded)

		assert.False(t, objects.has(res.Key), "rejected upload's blob must be deleted")
		_, err = st.GetFile(ctx, user.ID, res.FileID)
		assert.ErrorIs(t, err, models.ErrNotFound)

		owner, err := st.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), owner.StorageUsed)
	})

	t.Run("rejected recommit keeps the committed file and its blob", func(t *testing.T) {
		svc, st, objects, user := newUploadFixture(t)

		res, err := svc.Reserve(ctx, user.ID, "doc.txt", "text/plain", nil)
		require.NoError(t, err)
		objects.put(res.Key, []byte("committed bytes"))
		require.NoError(t, svc.Commit(ctx, user.ID, res.FileID, 1000))

		err = svc.Commit(ctx, user.ID, res.FileID, models.BasicStorageLimit+1)
		assert.ErrorIs(t, err, models.ErrStorageLimitExceeded)

		assert.True(t, objects.has(res.Key), "a committed blob must never be deleted on rejection")
		file, err := st.GetFile(ctx, user.ID, res.FileID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), file.Size)

		owner, err := st.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), owner.StorageUsed)
	})

	t.Run("quota rejection still surfaces when blob cleanup fails", func(t *testing.T) {
		svc, _, objects, user := newUploadFixture(t)

		res, err := svc.Reserve(ctx, user.ID, "huge.bin", "application/octet-stream", nil)
		require.NoError(t, err)

		objects.failDelete = true
		err = svc.Commit(ctx, user.ID, res.FileID, models.BasicStorageLimit+1)
		assert.ErrorIs(t, err, models.ErrStorageLimitExceeded)
	})

	t.Run("unknown reservation reports not found", func(t *testing.T) {
		svc, _, _, user := newUploadFixture(t)
		assert.ErrorIs(t, svc.Commit(ctx, user.ID, primitive.NewObjectID(), 10), models.ErrNotFound)
	})
}

func TestUploadDirect(t *testing.T) {
	ctx := context.Background()
	payload := []byte("hello nimbus")

	t.Run("stores the decoded bytes and commits their length", func(t *testing.T) {
		svc, st, objects, user := newUploadFixture(t)

		encoded := base64.StdEncoding.EncodeToString(payload)
		file, err := svc.UploadDirect(ctx, user.ID, "hello.txt", "text/plain", nil, encoded)
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), file.Size)
		assert.True(t, objects.has(file.Key))

		owner, err := st.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), owner.StorageUsed)
	})

	t.Run("accepts a data URL prefix", func(t *testing.T) {
		svc, _, _, user := newUploadFixture(t)

		dataURL := "data:text/plain;base64," + base64.StdEncoding.EncodeToString(payload)
		file, err := svc.UploadDirect(ctx, user.ID, "hello.txt", "text/plain", nil, dataURL)
		require.NoError(t, err)
		assert.Equal(t, int64(len(payload)), file.Size)
	})

	t.Run("rejects malformed base64", func(t *testing.T) {
		svc, _, _, user := newUploadFixture(t)

		_, err := svc.UploadDirect(ctx, user.ID, "bad.txt", "text/plain", nil, "!!not base64!!")
		assert.Error(t, err)
	})

	t.Run("a failed put releases the reservation", func(t *testing.T) {
		svc, st, objects, user := newUploadFixture(t)
		objects.failPut = true

		_, err := svc.UploadDirect(ctx, user.ID, "hello.txt", "text/plain", nil, base64.StdEncoding.EncodeToString(payload))
		require.Error(t, err)

		files, err := st.ListFiles(ctx, user.ID, store.ListOptions{})
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}

func TestDownloadURL(t *testing.T) {
	ctx := context.Background()
	svc, st, _, user := newUploadFixture(t)

	res, err := svc.Reserve(ctx, user.ID, "a.txt", "text/plain", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Commit(ctx, user.ID, res.FileID, 10))

	url, err := svc.DownloadURL(ctx, user.ID, res.FileID)
	require.NoError(t, err)
	assert.Equal(t, "https://blobs.test/download/"+res.Key, url)

	_, err = svc.DownloadURL(ctx, user.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, models.ErrNotFound)

	other := &models.User{Email: "other@example.com", Subscription: models.SubscriptionBasic}
	require.NoError(t, st.CreateUser(ctx, other))
	_, err = svc.DownloadURL(ctx, other.ID, res.FileID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSweepStaleReservations(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	objects := newFakeObjectStore()
	// a zero TTL makes every pending reservation immediately stale
	svc := NewUploadService(st, objects, 0, time.Hour)

	user := &models.User{Email: "owner@example.com", Subscription: models.SubscriptionBasic}
	require.NoError(t, st.CreateUser(ctx, user))

	stale, err := svc.Reserve(ctx, user.ID, "stale.bin", "application/octet-stream", nil)
	require.NoError(t, err)
	objects.put(stale.Key, []byte("partial upload"))

	committed, err := svc.Reserve(ctx, user.ID, "done.bin", "application/octet-stream", nil)
	require.NoError(t, err)
	require.NoError(t, svc.Commit(ctx, user.ID, committed.FileID, 10))

	time.Sleep(5 * time.Millisecond)

	swept, err := svc.SweepStaleReservations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	_, err = st.GetFile(ctx, user.ID, stale.FileID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.False(t, objects.has(stale.Key))

	// committed rows and their quota are untouched
	file, err := st.GetFile(ctx, user.ID, committed.FileID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), file.Size)

	owner, err := st.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), owner.StorageUsed)
}

func TestDecodeBase64Payload(t *testing.T) {
	raw := []byte{0x00, 0x01, 0xFF}
	encoded := base64.StdEncoding.EncodeToString(raw)

	decoded, err := decodeBase64Payload(encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	decoded, err = decodeBase64Payload("data:application/octet-stream;base64," + encoded)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)

	_, err = decodeBase64Payload("%%%")
	assert.Error(t, err)
}
