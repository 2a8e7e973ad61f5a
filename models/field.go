package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type FieldStatus string

const (
	FieldStatusActive    FieldStatus = "Active"
	FieldStatusFallow    FieldStatus = "Fallow"
	FieldStatusHarvested FieldStatus = "Harvested"
	FieldStatusPrepared  FieldStatus = "Prepared"
)

// ValidFieldStatus reports whether s is one of the four field states.
func ValidFieldStatus(s FieldStatus) bool {
	switch s {
	case FieldStatusActive, FieldStatusFallow, FieldStatusHarvested, FieldStatusPrepared:
		return true
	}
	return false
}

// FieldSchemaVersion is the current on-disk shape of field documents.
// Version 1 documents carried a single flat currentCrop/plantingDate pair;
// version 2 holds the crops array. See migrateLegacyFields.
const FieldSchemaVersion = 2

// Field — one cultivated parcel owned by a user.
type Field struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"   json:"id"`
	OwnerID        primitive.ObjectID `bson:"ownerId"         json:"ownerId"`
	FieldName      string             `bson:"fieldName"       json:"fieldName"`
	Area           float64            `bson:"area"            json:"area"`
	AreaUnit       string             `bson:"areaUnit"        json:"areaUnit"` // acres | hectares | sqm
	SoilType       string             `bson:"soilType"        json:"soilType"`
	IrrigationType string             `bson:"irrigationType"  json:"irrigationType"`
	Crops          []Crop             `bson:"crops"           json:"crops"`
	Status         FieldStatus        `bson:"status"          json:"status"`
	Notes          string             `bson:"notes,omitempty" json:"notes,omitempty"`
	SchemaVersion  int                `bson:"schemaVersion"   json:"-"`
	CreatedAt      time.Time          `bson:"createdAt"       json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"       json:"updatedAt"`
}

// Crop is a planting within a field. It has no identity outside its field;
// ids are minted server-side so clients can address list entries.
type Crop struct {
	ID                  string `bson:"id"                            json:"id"`
	Name                string `bson:"name"                          json:"name"`
	PlantingDate        string `bson:"plantingDate,omitempty"        json:"plantingDate,omitempty"`
	ExpectedHarvestDate string `bson:"expectedHarvestDate,omitempty" json:"expectedHarvestDate,omitempty"`
}
