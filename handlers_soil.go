package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"agrosense/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// handleGetSoilHealth returns the user's current soil-test snapshot, or
// 404 if none was ever recorded.
func (a *App) handleGetSoilHealth(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var s models.SoilHealth
	if err := a.soil.FindOne(ctx, bson.M{"ownerId": uid}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "no soil data recorded", http.StatusNotFound)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(s)
}

// handleUpdateSoilHealth overwrites the singleton snapshot with the
// submitted values and stamps it server-side.
func (a *App) handleUpdateSoilHealth(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)

	var req soilHealthReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}

	s := models.SoilHealth{
		OwnerID:       uid,
		PH:            req.PH,
		Nitrogen:      req.Nitrogen,
		Phosphorus:    req.Phosphorus,
		Potassium:     req.Potassium,
		OrganicMatter: req.OrganicMatter,
		UpdatedAt:     time.Now().UTC(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	_, err := a.soil.ReplaceOne(ctx,
		bson.M{"ownerId": uid},
		&s,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(s)
}
