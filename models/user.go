package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string             `bson:"username"      json:"username"`
	Email        string             `bson:"email"         json:"email"`
	PasswordHash string             `bson:"passwordHash"  json:"-"`
	CreatedAt    time.Time          `bson:"createdAt"     json:"createdAt"`

	// Set during onboarding, edited from settings.
	FarmProfile         *FarmProfile `bson:"farmProfile,omitempty" json:"farmProfile,omitempty"`
	OnboardingCompleted bool         `bson:"onboardingCompleted"   json:"onboardingCompleted"`
}

// FarmProfile describes the farm as a whole, as opposed to individual fields.
// Latitude/longitude are optional; when absent the free-text location is
// geocoded on demand for weather lookups.
type FarmProfile struct {
	FarmName       string   `bson:"farmName"            json:"farmName"`
	Location       string   `bson:"location"            json:"location"`
	Latitude       *float64 `bson:"latitude,omitempty"  json:"latitude,omitempty"`
	Longitude      *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
	TotalArea      float64  `bson:"totalArea"           json:"totalArea"`
	AreaUnit       string   `bson:"areaUnit"            json:"areaUnit"` // acres | hectares | sqm
	SoilType       string   `bson:"soilType"            json:"soilType"`
	IrrigationType string   `bson:"irrigationType"      json:"irrigationType"`
	PrimaryCrops   []string `bson:"primaryCrops,omitempty" json:"primaryCrops,omitempty"`
}
