package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Subscription is the user's plan tier. The tier alone determines the
// storage limit; the limit is never stored denormalized on the user row.
type Subscription string

const (
	SubscriptionBasic Subscription = "Basic"
	SubscriptionPro   Subscription = "Pro"
)

const (
	BasicStorageLimit int64 = 1610612736  // 1.5 GiB
	ProStorageLimit   int64 = 16106127360 // 15 GiB
)

// StorageLimit returns the byte quota for the tier. Unknown tiers fall
// back to Basic.
func (s Subscription) StorageLimit() int64 {
	if s == SubscriptionPro {
		return ProStorageLimit
	}
	return BasicStorageLimit
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	Subscription Subscription       `bson:"subscription" json:"subscription"`
	StorageUsed  int64              `bson:"storage_used" json:"storage_used"` // in bytes
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// PercentUsed is storageUsed/limit*100, deliberately not clamped at 100
// so over-quota accounts display as such.
func PercentUsed(used, limit int64) float64 {
	if limit <= 0 {
		return 0
	}
	return float64(used) / float64(limit) * 100
}
