package store

import (
	"context"
	"fmt"
	"time"

	"nimbusdrive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (s *MongoStore) CreateFolder(ctx context.Context, folder *models.Folder) error {
	if folder.ID.IsZero() {
		folder.ID = primitive.NewObjectID()
	}
	now := time.Now()
	folder.CreatedAt = now
	folder.UpdatedAt = now

	if _, err := s.folderCollection.InsertOne(ctx, folder); err != nil {
		return fmt.Errorf("failed to create folder: %w", err)
	}
	return nil
}

func (s *MongoStore) GetFolder(ctx context.Context, userID, folderID primitive.ObjectID) (*models.Folder, error) {
	var folder models.Folder
	err := s.folderCollection.FindOne(ctx, bson.M{"_id": folderID, "user_id": userID}).Decode(&folder)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load folder: %w", err)
	}
	return &folder, nil
}

func (s *MongoStore) ListFolders(ctx context.Context, userID primitive.ObjectID, opts ListOptions) ([]models.Folder, error) {
	filter := bson.M{
		"user_id":    userID,
		"is_archive": opts.IsArchive,
	}
	applyListOptions(filter, opts, "parent_id")

	findOpts := options.Find().SetSort(bson.M{"created_at": -1})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.folderCollection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}
	defer cursor.Close(ctx)

	folders := []models.Folder{}
	if err = cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode folders: %w", err)
	}
	return folders, nil
}

func (s *MongoStore) RenameFolder(ctx context.Context, userID, folderID primitive.ObjectID, name string) error {
	return s.updateOwned(ctx, s.folderCollection, userID, folderID,
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}})
}

func (s *MongoStore) SetFolderStar(ctx context.Context, userID, folderID primitive.ObjectID, starred bool) error {
	return s.updateOwned(ctx, s.folderCollection, userID, folderID,
		bson.M{"$set": bson.M{"is_star": starred, "updated_at": time.Now()}})
}

func (s *MongoStore) SetFolderArchived(ctx context.Context, userID, folderID primitive.ObjectID, archivedAt *time.Time) error {
	return s.updateOwned(ctx, s.folderCollection, userID, folderID, archiveUpdate(archivedAt))
}

func (s *MongoStore) CountFolders(ctx context.Context, userID primitive.ObjectID, activeOnly bool) (int64, error) {
	filter := bson.M{"user_id": userID}
	if activeOnly {
		filter["is_archive"] = false
	}
	count, err := s.folderCollection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count folders: %w", err)
	}
	return count, nil
}

func (s *MongoStore) ListSubfolders(ctx context.Context, userID, folderID primitive.ObjectID) ([]models.Folder, error) {
	cursor, err := s.folderCollection.Find(ctx, bson.M{"user_id": userID, "parent_id": folderID})
	if err != nil {
		return nil, fmt.Errorf("failed to list subfolders: %w", err)
	}
	defer cursor.Close(ctx)

	folders := []models.Folder{}
	if err = cursor.All(ctx, &folders); err != nil {
		return nil, fmt.Errorf("failed to decode subfolders: %w", err)
	}
	return folders, nil
}

func (s *MongoStore) DeleteFolderRow(ctx context.Context, userID, folderID primitive.ObjectID) error {
	res, err := s.folderCollection.DeleteOne(ctx, bson.M{"_id": folderID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("failed to delete folder: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
