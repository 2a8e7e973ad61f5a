package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SoilHealth is the latest manual soil-test snapshot. One document per
// user (the "current" slot), overwritten whole on each edit.
type SoilHealth struct {
	OwnerID       primitive.ObjectID `bson:"ownerId"       json:"-"`
	PH            float64            `bson:"ph"            json:"ph"`
	Nitrogen      float64            `bson:"nitrogen"      json:"nitrogen"`
	Phosphorus    float64            `bson:"phosphorus"    json:"phosphorus"`
	Potassium     float64            `bson:"potassium"     json:"potassium"`
	OrganicMatter float64            `bson:"organicMatter" json:"organicMatter"`
	UpdatedAt     time.Time          `bson:"updatedAt"     json:"updatedAt"`
}
