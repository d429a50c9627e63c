package store

import (
	"context"
	"fmt"
	"time"

	"nimbusdrive/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var _ Store = (*MongoStore)(nil)

// MongoStore is the production metadata store backed by MongoDB.
type MongoStore struct {
	client           *mongo.Client
	userCollection   *mongo.Collection
	fileCollection   *mongo.Collection
	folderCollection *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{
		client:           db.Client(),
		userCollection:   db.Collection("users"),
		fileCollection:   db.Collection("files"),
		folderCollection: db.Collection("folders"),
	}
}

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Subscription == "" {
		user.Subscription = models.SubscriptionBasic
	}

	if _, err := s.userCollection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *MongoStore) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.userCollection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// CommitUpload runs the quota check-and-increment and the file size write
// inside one transaction. The storage counter update is a conditional
// single-document $inc, so concurrent commits for the same user serialize
// on the user row and can never jointly overshoot the limit.
func (s *MongoStore) CommitUpload(ctx context.Context, userID, fileID primitive.ObjectID, size int64) (CommitResult, error) {
	var result CommitResult

	session, err := s.client.StartSession()
	if err != nil {
		return result, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	// A rejection must not surface as a callback error: WithTransaction
	// aborts the transaction on error, which would undo the rejected
	// reservation's delete. The flag carries the outcome out instead.
	var rejected bool

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var file models.File
		err := s.fileCollection.FindOne(sc, bson.M{"_id": fileID, "user_id": userID}).Decode(&file)
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		} else if err != nil {
			return nil, fmt.Errorf("failed to load file: %w", err)
		}

		var user models.User
		err = s.userCollection.FindOne(sc, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		} else if err != nil {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}

		delta := size - file.Size
		limit := user.Subscription.StorageLimit()

		if delta > 0 {
			// storage_used + delta <= limit, checked and applied in one step
			res, err := s.userCollection.UpdateOne(sc,
				bson.M{"_id": userID, "storage_used": bson.M{"$lte": limit - delta}},
				bson.M{"$inc": bson.M{"storage_used": delta}, "$set": bson.M{"updated_at": time.Now()}},
			)
			if err != nil {
				return nil, fmt.Errorf("failed to update storage usage: %w", err)
			}
			if res.ModifiedCount == 0 {
				// Over quota. A dangling reservation is dropped; a
				// committed row keeps its size, blob and quota share.
				if file.IsProvisional() {
					if _, err := s.fileCollection.DeleteOne(sc, bson.M{"_id": fileID, "size": 0}); err != nil {
						return nil, fmt.Errorf("failed to drop rejected reservation: %w", err)
					}
					result.Key = file.Key
				}
				rejected = true
				return nil, nil
			}
		} else if delta < 0 {
			_, err := s.userCollection.UpdateOne(sc,
				bson.M{"_id": userID},
				bson.M{"$inc": bson.M{"storage_used": delta}, "$set": bson.M{"updated_at": time.Now()}},
			)
			if err != nil {
				return nil, fmt.Errorf("failed to update storage usage: %w", err)
			}
		}

		_, err = s.fileCollection.UpdateOne(sc,
			bson.M{"_id": fileID},
			bson.M{"$set": bson.M{"size": size, "updated_at": time.Now()}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to record file size: %w", err)
		}
		result.Key = file.Key
		result.Delta = delta
		return nil, nil
	})
	if err != nil {
		return result, err
	}
	if rejected {
		return result, models.ErrStorageLimitExceeded
	}
	return result, nil
}

// PurgeFile removes the row and releases its quota in one transaction.
// FindOneAndDelete makes a repeated purge observe no row and therefore
// never decrement twice.
func (s *MongoStore) PurgeFile(ctx context.Context, userID, fileID primitive.ObjectID) (*models.File, error) {
	session, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	var purged *models.File
	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		var file models.File
		err := s.fileCollection.FindOneAndDelete(sc, bson.M{"_id": fileID, "user_id": userID}).Decode(&file)
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		} else if err != nil {
			return nil, fmt.Errorf("failed to delete file row: %w", err)
		}

		if file.Size > 0 {
			_, err = s.userCollection.UpdateOne(sc,
				bson.M{"_id": userID},
				bson.M{"$inc": bson.M{"storage_used": -file.Size}, "$set": bson.M{"updated_at": time.Now()}},
			)
			if err != nil {
				return nil, fmt.Errorf("failed to release storage usage: %w", err)
			}
		}

		purged = &file
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return purged, nil
}
