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

func (s *MongoStore) CreateFile(ctx context.Context, file *models.File) error {
	if file.ID.IsZero() {
		file.ID = primitive.NewObjectID()
	}
	now := time.Now()
	file.CreatedAt = now
	file.UpdatedAt = now

	if _, err := s.fileCollection.InsertOne(ctx, file); err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	return nil
}

func (s *MongoStore) GetFile(ctx context.Context, userID, fileID primitive.ObjectID) (*models.File, error) {
	var file models.File
	err := s.fileCollection.FindOne(ctx, bson.M{"_id": fileID, "user_id": userID}).Decode(&file)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return &file, nil
}

func (s *MongoStore) ListFiles(ctx context.Context, userID primitive.ObjectID, opts ListOptions) ([]models.File, error) {
	filter := bson.M{
		"user_id":    userID,
		"is_archive": opts.IsArchive,
	}
	applyListOptions(filter, opts, "folder_id")

	findOpts := options.Find().SetSort(bson.M{"created_at": -1})
	if opts.Limit > 0 {
		findOpts.SetLimit(opts.Limit)
	}

	cursor, err := s.fileCollection.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer cursor.Close(ctx)

	files := []models.File{}
	if err = cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode files: %w", err)
	}
	return files, nil
}

func (s *MongoStore) RenameFile(ctx context.Context, userID, fileID primitive.ObjectID, name string) error {
	return s.updateOwned(ctx, s.fileCollection, userID, fileID,
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}})
}

func (s *MongoStore) SetFileStar(ctx context.Context, userID, fileID primitive.ObjectID, starred bool) error {
	return s.updateOwned(ctx, s.fileCollection, userID, fileID,
		bson.M{"$set": bson.M{"is_star": starred, "updated_at": time.Now()}})
}

func (s *MongoStore) SetFileArchived(ctx context.Context, userID, fileID primitive.ObjectID, archivedAt *time.Time) error {
	return s.updateOwned(ctx, s.fileCollection, userID, fileID, archiveUpdate(archivedAt))
}

func (s *MongoStore) CountFiles(ctx context.Context, userID primitive.ObjectID, activeOnly bool) (int64, error) {
	filter := bson.M{"user_id": userID}
	if activeOnly {
		filter["is_archive"] = false
	}
	count, err := s.fileCollection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count files: %w", err)
	}
	return count, nil
}

func (s *MongoStore) ListFolderContents(ctx context.Context, userID, folderID primitive.ObjectID) ([]models.File, error) {
	cursor, err := s.fileCollection.Find(ctx, bson.M{"user_id": userID, "folder_id": folderID})
	if err != nil {
		return nil, fmt.Errorf("failed to list folder contents: %w", err)
	}
	defer cursor.Close(ctx)

	files := []models.File{}
	if err = cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode folder contents: %w", err)
	}
	return files, nil
}

func (s *MongoStore) ListStaleProvisional(ctx context.Context, olderThan time.Time, limit int64) ([]models.File, error) {
	findOpts := options.Find().SetSort(bson.M{"created_at": 1})
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	cursor, err := s.fileCollection.Find(ctx, bson.M{
		"size":       0,
		"created_at": bson.M{"$lte": olderThan},
	}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to list stale reservations: %w", err)
	}
	defer cursor.Close(ctx)

	files := []models.File{}
	if err = cursor.All(ctx, &files); err != nil {
		return nil, fmt.Errorf("failed to decode stale reservations: %w", err)
	}
	return files, nil
}

func (s *MongoStore) DeleteProvisional(ctx context.Context, fileID primitive.ObjectID) (bool, error) {
	// size guard: a commit that landed after the sweep's listing wins
	res, err := s.fileCollection.DeleteOne(ctx, bson.M{"_id": fileID, "size": 0})
	if err != nil {
		return false, fmt.Errorf("failed to delete stale reservation: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *MongoStore) updateOwned(ctx context.Context, coll *mongo.Collection, userID, id primitive.ObjectID, update bson.M) error {
	res, err := coll.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, update)
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", coll.Name(), err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func archiveUpdate(archivedAt *time.Time) bson.M {
	if archivedAt != nil {
		return bson.M{"$set": bson.M{
			"is_archive":  true,
			"archived_at": archivedAt,
			"updated_at":  time.Now(),
		}}
	}
	return bson.M{
		"$set":   bson.M{"is_archive": false, "updated_at": time.Now()},
		"$unset": bson.M{"archived_at": ""},
	}
}

// applyListOptions translates the optional filters onto a bson filter.
// parentField is "folder_id" for files and "parent_id" for folders.
func applyListOptions(filter bson.M, opts ListOptions, parentField string) {
	if opts.IsStar != nil {
		filter["is_star"] = *opts.IsStar
	}
	if opts.IsDocument != nil {
		filter["is_document"] = *opts.IsDocument
	}
	if opts.HasParent {
		if opts.ParentID == nil {
			filter[parentField] = nil
		} else {
			filter[parentField] = *opts.ParentID
		}
	}
}
