package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"agrosense/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Uploads are capped before decode; the stored copy is always the
// downscaled re-encode, never the original.
const maxUploadBytes = 10 << 20

// handleDiagnoseCrop accepts a crop photo (multipart field "image"),
// downscales it, runs the multimodal diagnosis and persists the result as
// a history entry with the image inline.
func (a *App) handleDiagnoseCrop(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "bad multipart form", http.StatusBadRequest)
		return
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		http.Error(w, "image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		http.Error(w, "read error", http.StatusBadRequest)
		return
	}
	if len(raw) > maxUploadBytes {
		http.Error(w, "image too large", http.StatusRequestEntityTooLarge)
		return
	}

	scaled, err := downscaleJPEG(raw)
	if err != nil {
		http.Error(w, "unsupported or corrupt image", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	diag, err := a.advisor.DiagnoseCrop(ctx, scaled, "image/jpeg")
	if err != nil {
		log.Printf("error analyzing crop image: %v", err)
		switch {
		case errors.Is(err, ErrNoAPIKey):
			http.Error(w, "ai analysis unavailable: api key not configured", http.StatusServiceUnavailable)
		case errors.Is(err, ErrMalformedResponse):
			http.Error(w, "ai response could not be validated", http.StatusBadGateway)
		default:
			http.Error(w, "failed to analyze image", http.StatusBadGateway)
		}
		return
	}

	analysis := models.CropAnalysis{
		OwnerID:    uid,
		ImageURL:   "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(scaled),
		Diagnosis:  diag.Diagnosis,
		Confidence: diag.Confidence,
		Symptoms:   diag.Symptoms,
		Treatment:  diag.Treatment,
		Prevention: diag.Prevention,
		CreatedAt:  time.Now().UTC(),
	}
	res, err := a.analyses.InsertOne(ctx, &analysis)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	analysis.ID = res.InsertedID.(primitive.ObjectID)

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(analysis)
}

// handleListCropAnalyses returns the diagnosis history, newest first.
func (a *App) handleListCropAnalyses(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.analyses.Find(ctx, bson.M{"ownerId": uid},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	out := []models.CropAnalysis{}
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (a *App) handleDeleteCropAnalysis(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.analyses.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": uid})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(bson.M{"ok": true})
}
