package main

import (
	"context"
	"log"
	"time"

	"agrosense/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
)

// legacyField is the version-1 document shape: one flat crop instead of a
// crops array.
type legacyField struct {
	ID           interface{}   `bson:"_id"`
	Crops        []models.Crop `bson:"crops"`
	CurrentCrop  string        `bson:"currentCrop"`
	PlantingDate string        `bson:"plantingDate"`
	HarvestDate  string        `bson:"expectedHarvestDate"`
}

// legacyCrops builds the crops array for a version-1 document. A crops
// array that already exists wins over the flat fields; documents with
// neither get an empty list.
func legacyCrops(lf legacyField) []models.Crop {
	if len(lf.Crops) > 0 {
		return lf.Crops
	}
	if lf.CurrentCrop == "" {
		return []models.Crop{}
	}
	return []models.Crop{{
		ID:                  uuid.NewString(),
		Name:                lf.CurrentCrop,
		PlantingDate:        lf.PlantingDate,
		ExpectedHarvestDate: lf.HarvestDate,
	}}
}

// migrateLegacyFields upgrades version-1 field documents to the crops-array
// shape. It runs once at startup so reads never have to repair documents on
// the fly. Already-migrated documents are filtered out by schemaVersion.
func (a *App) migrateLegacyFields(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cur, err := a.fields.Find(ctx, bson.M{"$or": bson.A{
		bson.M{"schemaVersion": bson.M{"$exists": false}},
		bson.M{"schemaVersion": bson.M{"$lt": models.FieldSchemaVersion}},
	}})
	if err != nil {
		return err
	}
	defer cur.Close(ctx)

	migrated := 0
	for cur.Next(ctx) {
		var lf legacyField
		if err := cur.Decode(&lf); err != nil {
			return err
		}
		_, err := a.fields.UpdateOne(ctx,
			bson.M{"_id": lf.ID},
			bson.M{
				"$set": bson.M{
					"crops":         legacyCrops(lf),
					"schemaVersion": models.FieldSchemaVersion,
				},
				"$unset": bson.M{
					"currentCrop":         "",
					"plantingDate":        "",
					"expectedHarvestDate": "",
				},
			},
		)
		if err != nil {
			return err
		}
		migrated++
	}
	if err := cur.Err(); err != nil {
		return err
	}
	if migrated > 0 {
		log.Printf("migrated %d legacy field documents", migrated)
	}
	return nil
}
