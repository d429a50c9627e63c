package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type File struct {
	ID       primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name     string              `bson:"name" json:"name"`
	Type     string              `bson:"type" json:"type"` // MIME type
	Size     int64               `bson:"size" json:"size"`
	Key      string              `bson:"key" json:"key"` // object store locator, unique, never reassigned
	UserID   primitive.ObjectID  `bson:"user_id" json:"user_id"`
	FolderID *primitive.ObjectID `bson:"folder_id,omitempty" json:"folder_id,omitempty"`

	IsArchive  bool       `bson:"is_archive" json:"is_archive"`
	IsStar     bool       `bson:"is_star" json:"is_star"`
	IsDocument bool       `bson:"is_document" json:"is_document"`
	ArchivedAt *time.Time `bson:"archived_at,omitempty" json:"archived_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsProvisional reports whether the row is a reservation that has not
// been committed yet. Provisional rows hold a key but contribute nothing
// to the owner's storage counter.
func (f *File) IsProvisional() bool {
	return f.Size == 0
}
