package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CropAnalysis is one AI diagnosis of an uploaded crop photo. The
// downscaled image travels inline as a data URL rather than through blob
// storage, keeping the history entry self-contained.
type CropAnalysis struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID    primitive.ObjectID `bson:"ownerId"       json:"ownerId"`
	ImageURL   string             `bson:"imageUrl"      json:"imageUrl"`
	Diagnosis  string             `bson:"diagnosis"     json:"diagnosis"`
	Confidence string             `bson:"confidence"    json:"confidence"` // High | Medium | Low
	Symptoms   []string           `bson:"symptoms"      json:"symptoms"`
	Treatment  []string           `bson:"treatment"     json:"treatment"`
	Prevention []string           `bson:"prevention"    json:"prevention"`
	CreatedAt  time.Time          `bson:"createdAt"     json:"createdAt"`
}
