package services

import (
	"context"
	"testing"
	"time"

	"nimbusdrive/models"
	"nimbusdrive/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListInFolder(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	objects := newFakeObjectStore()
	uploads := NewUploadService(st, objects, time.Hour, time.Hour)
	svc := NewFileService(st)

	user := &models.User{Email: "owner@example.com", Subscription: models.SubscriptionBasic}
	require.NoError(t, st.CreateUser(ctx, user))

	folder := &models.Folder{Name: "docs", UserID: user.ID}
	require.NoError(t, st.CreateFolder(ctx, folder))

	inside, err := uploads.Reserve(ctx, user.ID, "inside.txt", "text/plain", &folder.ID)
	require.NoError(t, err)
	require.NoError(t, uploads.Commit(ctx, user.ID, inside.FileID, 10))

	outside, err := uploads.Reserve(ctx, user.ID, "outside.txt", "text/plain", nil)
	require.NoError(t, err)
	require.NoError(t, uploads.Commit(ctx, user.ID, outside.FileID, 10))

	t.Run("scopes to the folder", func(t *testing.T) {
		files, err := svc.ListInFolder(ctx, user.ID, folder.ID, store.ListOptions{})
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "inside.txt", files[0].Name)
	})

	t.Run("validates folder ownership first", func(t *testing.T) {
		_, err := svc.ListInFolder(ctx, user.ID, primitive.NewObjectID(), store.ListOptions{})
		assert.ErrorIs(t, err, models.ErrNotFound)

		other := &models.User{Email: "other@example.com", Subscription: models.SubscriptionBasic}
		require.NoError(t, st.CreateUser(ctx, other))
		_, err = svc.ListInFolder(ctx, other.ID, folder.ID, store.ListOptions{})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("get enforces ownership", func(t *testing.T) {
		file, err := svc.Get(ctx, user.ID, inside.FileID)
		require.NoError(t, err)
		assert.Equal(t, "inside.txt", file.Name)

		other := &models.User{Email: "third@example.com", Subscription: models.SubscriptionBasic}
		require.NoError(t, st.CreateUser(ctx, other))
		_, err = svc.Get(ctx, other.ID, inside.FileID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
