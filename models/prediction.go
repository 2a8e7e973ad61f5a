package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PredictionStatus string

const (
	PredictionIrrigate PredictionStatus = "Irrigate"
	PredictionWait     PredictionStatus = "Wait"
	PredictionCritical PredictionStatus = "Critical"
)

func ValidPredictionStatus(s PredictionStatus) bool {
	switch s {
	case PredictionIrrigate, PredictionWait, PredictionCritical:
		return true
	}
	return false
}

// Prediction is the latest AI irrigation assessment for one field.
// The document _id equals the field's id, so each analysis replaces the
// previous one wholesale and at most one prediction exists per field.
type Prediction struct {
	ID                 primitive.ObjectID `bson:"_id"                json:"fieldId"`
	OwnerID            primitive.ObjectID `bson:"ownerId"            json:"ownerId"`
	Status             PredictionStatus   `bson:"status"             json:"status"`
	MoistureLevel      float64            `bson:"moistureLevel"      json:"moistureLevel"` // 0-100
	Recommendation     string             `bson:"recommendation"     json:"recommendation"`
	WaterAmount        string             `bson:"waterAmount"        json:"waterAmount"`
	NextIrrigation     string             `bson:"nextIrrigation"     json:"nextIrrigation"`
	Confidence         float64            `bson:"confidence"         json:"confidence"` // 0-100
	Evapotranspiration float64            `bson:"evapotranspiration" json:"evapotranspiration"` // mm/day
	FieldCapacity      float64            `bson:"fieldCapacity"      json:"fieldCapacity"` // %
	WiltingPoint       float64            `bson:"wiltingPoint"       json:"wiltingPoint"`  // %
	Forecast           []ForecastDay      `bson:"forecast"           json:"forecast"`
	LastUpdated        time.Time          `bson:"lastUpdated"        json:"lastUpdated"`
}

// ForecastDay is one entry of the 7-day moisture projection.
type ForecastDay struct {
	Day      string  `bson:"day"      json:"day"`
	Moisture float64 `bson:"moisture" json:"moisture"`
	RainProb float64 `bson:"rainProb" json:"rainProb"`
}

// IrrigationEvent is one logged watering action on a field.
type IrrigationEvent struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID primitive.ObjectID `bson:"ownerId"       json:"ownerId"`
	FieldID primitive.ObjectID `bson:"fieldId"       json:"fieldId"`
	Date    time.Time          `bson:"date"          json:"date"`
	Type    string             `bson:"type"          json:"type"`
	Amount  string             `bson:"amount"        json:"amount"`
}
