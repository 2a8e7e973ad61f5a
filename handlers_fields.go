package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"agrosense/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// handleCreateField inserts a new field after basic validation.
func (a *App) handleCreateField(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)

	var req fieldReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if msg := validateFieldReq(&req); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	now := time.Now()
	f := models.Field{
		OwnerID:        uid,
		FieldName:      req.FieldName,
		Area:           req.Area,
		AreaUnit:       req.AreaUnit,
		SoilType:       req.SoilType,
		IrrigationType: req.IrrigationType,
		Crops:          cropsFromReq(req.Crops),
		Status:         req.Status,
		Notes:          req.Notes,
		SchemaVersion:  models.FieldSchemaVersion,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res, err := a.fields.InsertOne(ctx, &f)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	f.ID = res.InsertedID.(primitive.ObjectID)
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(f)
}

// handleListFields returns the current user's fields, newest first.
// An optional ?status= query narrows to one field state.
func (a *App) handleListFields(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	filter := bson.M{"ownerId": uid}
	if s := r.URL.Query().Get("status"); s != "" && s != "All" {
		if !models.ValidFieldStatus(models.FieldStatus(s)) {
			http.Error(w, "unknown status filter", http.StatusBadRequest)
			return
		}
		filter["status"] = s
	}

	cur, err := a.fields.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	out := []models.Field{}
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleGetField returns a single field by id (owned by the user).
func (a *App) handleGetField(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var f models.Field
	if err := a.fields.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid}).Decode(&f); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(f)
}

// handleUpdateField replaces the farmer-editable portion of a field.
func (a *App) handleUpdateField(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}

	var req fieldReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	if msg := validateFieldReq(&req); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()
	res := a.fields.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "ownerId": uid},
		bson.M{"$set": bson.M{
			"fieldName":      req.FieldName,
			"area":           req.Area,
			"areaUnit":       req.AreaUnit,
			"soilType":       req.SoilType,
			"irrigationType": req.IrrigationType,
			"crops":          cropsFromReq(req.Crops),
			"status":         req.Status,
			"notes":          req.Notes,
			"schemaVersion":  models.FieldSchemaVersion,
			"updatedAt":      time.Now(),
		}},
		mongoAfter(),
	)

	var out models.Field
	if err := res.Decode(&out); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleDeleteField removes a field by id. The field's prediction goes with
// it; irrigation events are independently owned and stay.
func (a *App) handleDeleteField(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.fields.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": uid})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_, _ = a.predictions.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": uid})
	_ = json.NewEncoder(w).Encode(bson.M{"ok": true})
}

// ---- helpers ----

func validateFieldReq(req *fieldReq) string {
	if strings.TrimSpace(req.FieldName) == "" {
		return "fieldName is required"
	}
	if req.Area < 0 {
		return "area must be non-negative"
	}
	if req.AreaUnit == "" {
		req.AreaUnit = "acres"
	}
	if req.SoilType == "" || req.IrrigationType == "" {
		return "soilType and irrigationType are required"
	}
	if req.Status == "" {
		req.Status = models.FieldStatusActive
	}
	if !models.ValidFieldStatus(req.Status) {
		return "unknown field status"
	}
	for _, c := range req.Crops {
		if strings.TrimSpace(c.Name) == "" {
			return "crop name is required"
		}
	}
	return ""
}

// cropsFromReq keeps client-supplied crop ids and mints ids for new entries.
func cropsFromReq(crops []cropReq) []models.Crop {
	out := make([]models.Crop, len(crops))
	for i, c := range crops {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		out[i] = models.Crop{
			ID:                  id,
			Name:                c.Name,
			PlantingDate:        c.PlantingDate,
			ExpectedHarvestDate: c.ExpectedHarvestDate,
		}
	}
	return out
}

func mongoAfter() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
