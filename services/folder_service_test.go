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

func TestFolderCreate(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	svc := NewFolderService(st)

	user := &models.User{Email: "owner@example.com", Subscription: models.SubscriptionBasic}
	require.NoError(t, st.CreateUser(ctx, user))

	t.Run("creates a root folder", func(t *testing.T) {
		folder, err := svc.Create(ctx, user.ID, "  docs  ", nil, false)
		require.NoError(t, err)
		assert.Equal(t, "docs", folder.Name)
		assert.Nil(t, folder.ParentID)
		assert.False(t, folder.ID.IsZero())
	})

	t.Run("creates a nested folder under an owned parent", func(t *testing.T) {
		parent, err := svc.Create(ctx, user.ID, "parent", nil, false)
		require.NoError(t, err)

		child, err := svc.Create(ctx, user.ID, "child", &parent.ID, true)
		require.NoError(t, err)
		require.NotNil(t, child.ParentID)
		assert.Equal(t, parent.ID, *child.ParentID)
		assert.True(t, child.IsDocument)
	})

	t.Run("rejects an empty name", func(t *testing.T) {
		_, err := svc.Create(ctx, user.ID, "   ", nil, false)
		assert.Error(t, err)
	})

	t.Run("rejects a parent the caller does not own", func(t *testing.T) {
		missing := primitive.NewObjectID()
		_, err := svc.Create(ctx, user.ID, "orphan", &missing, false)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestFolderGet(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	objects := newFakeObjectStore()
	uploads := NewUploadService(st, objects, time.Hour, time.Hour)
	lifecycle := NewLifecycleService(st, objects)
	svc := NewFolderService(st)

	user := &models.User{Email: "owner@example.com", Subscription: models.SubscriptionBasic}
	require.NoError(t, st.CreateUser(ctx, user))

	folder, err := svc.Create(ctx, user.ID, "docs", nil, false)
	require.NoError(t, err)
	sub, err := svc.Create(ctx, user.ID, "sub", &folder.ID, false)
	require.NoError(t, err)

	res, err := uploads.Reserve(ctx, user.ID, "a.txt", "text/plain", &folder.ID)
	require.NoError(t, err)
	require.NoError(t, uploads.Commit(ctx, user.ID, res.FileID, 10))

	trashed, err := uploads.Reserve(ctx, user.ID, "trash.txt", "text/plain", &folder.ID)
	require.NoError(t, err)
	require.NoError(t, uploads.Commit(ctx, user.ID, trashed.FileID, 10))
	require.NoError(t, lifecycle.Archive(ctx, user.ID, ItemTypeFile, trashed.FileID))

	t.Run("detail view lists active children only", func(t *testing.T) {
		detail, err := svc.Get(ctx, user.ID, folder.ID)
		require.NoError(t, err)
		assert.Equal(t, folder.ID, detail.ID)
		require.Len(t, detail.Files, 1)
		assert.Equal(t, "a.txt", detail.Files[0].Name)
		require.Len(t, detail.Subfolders, 1)
		assert.Equal(t, sub.ID, detail.Subfolders[0].ID)
	})

	t.Run("unknown folder", func(t *testing.T) {
		_, err := svc.Get(ctx, user.ID, primitive.NewObjectID())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
