package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"agrosense/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

// Post-irrigation prediction state written on a manual log. A deliberate
// cheap approximation instead of re-running the AI.
const loggedMoistureLevel = 90

var errFieldNotAnalyzable = errors.New("field is missing name, soil type, irrigation method or area")

var loggedRecommendation = map[string]string{
	"en": "Field recently irrigated. Moisture is optimal.",
	"fr": "Champ récemment irrigué. L'humidité est optimale.",
	"ar": "تم ري الحقل مؤخراً. الرطوبة مثالية.",
}

var loggedNextIrrigation = map[string]string{
	"en": "In 3-4 days",
	"fr": "Dans 3-4 jours",
	"ar": "خلال 3-4 أيام",
}

// handleAnalyzeField runs the AI irrigation analysis for one field and
// persists the resulting prediction, replacing any prior one.
func (a *App) handleAnalyzeField(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	lang := requestLang(r)

	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()

	var field models.Field
	if err := a.fields.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid}).Decode(&field); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	profile, _ := a.loadProfile(ctx, uid)
	weather := a.weatherForProfile(ctx, profile)

	pred, err := a.analyzeAndStore(ctx, uid, &field, profile, weather, lang)
	if err != nil {
		writeAnalysisError(w, &field, err)
		return
	}
	_ = json.NewEncoder(w).Encode(analyzeResp{Prediction: pred})
}

// handleAnalyzeAll fans the analysis out across every Active field
// concurrently. Per-field failures are logged and counted, never rolled
// back; a field that fails keeps its previous prediction.
func (a *App) handleAnalyzeAll(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	lang := requestLang(r)

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
	defer cancel()

	cur, err := a.fields.Find(ctx, bson.M{"ownerId": uid, "status": models.FieldStatusActive})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	var fields []models.Field
	if err := cur.All(ctx, &fields); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}

	// One weather lookup for the whole farm; individual analyses fall back
	// to the seasonal-weather prompt if it failed.
	profile, _ := a.loadProfile(ctx, uid)
	weather := a.weatherForProfile(ctx, profile)

	var (
		mu       sync.Mutex
		failures []string
	)
	var grp errgroup.Group
	for i := range fields {
		field := &fields[i]
		grp.Go(func() error {
			if _, err := a.analyzeAndStore(ctx, uid, field, profile, weather, lang); err != nil {
				log.Printf("analyze field %s: %v", field.FieldName, err)
				mu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", field.FieldName, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = grp.Wait()

	_ = json.NewEncoder(w).Encode(analyzeAllResp{
		Analyzed: len(fields) - len(failures),
		Failed:   len(failures),
		Errors:   failures,
	})
}

// analyzeAndStore is the single-field analysis step shared by the one-shot
// and fan-out endpoints. The prediction write happens only after the AI
// response passed validation; failures leave the stored prediction alone.
func (a *App) analyzeAndStore(ctx context.Context, uid primitive.ObjectID, field *models.Field, profile *models.FarmProfile, weather *WeatherData, lang string) (*models.Prediction, error) {
	if field.FieldName == "" || field.SoilType == "" || field.IrrigationType == "" || field.Area <= 0 {
		return nil, errFieldNotAnalyzable
	}

	assessment, err := a.advisor.AnalyzeIrrigation(ctx, field, profile, weather, lang)
	if err != nil {
		return nil, err
	}

	pred := models.Prediction{
		ID:                 field.ID,
		OwnerID:            uid,
		Status:             assessment.Status,
		MoistureLevel:      assessment.MoistureLevel,
		Recommendation:     assessment.Recommendation,
		WaterAmount:        assessment.WaterAmount,
		NextIrrigation:     assessment.NextIrrigation,
		Confidence:         assessment.Confidence,
		Evapotranspiration: assessment.Evapotranspiration,
		FieldCapacity:      assessment.FieldCapacity,
		WiltingPoint:       assessment.WiltingPoint,
		Forecast:           assessment.Forecast,
		LastUpdated:        time.Now().UTC(),
	}

	// Whole-document replace keyed by field id: last write wins, at most
	// one prediction per field.
	_, err = a.predictions.ReplaceOne(ctx,
		bson.M{"_id": field.ID},
		&pred,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return nil, fmt.Errorf("store prediction: %w", err)
	}
	return &pred, nil
}

// handleLogIrrigation records a manual watering event and optimistically
// rewrites the field's prediction to the fixed post-irrigation state.
func (a *App) handleLogIrrigation(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	lang := requestLang(r)

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := a.fields.FindOne(ctx, bson.M{"_id": oid, "ownerId": uid}).Err(); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	ev := models.IrrigationEvent{
		OwnerID: uid,
		FieldID: oid,
		Date:    time.Now().UTC(),
		Type:    "Manual",
		Amount:  "Standard",
	}
	res, err := a.events.InsertOne(ctx, &ev)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	ev.ID = res.InsertedID.(primitive.ObjectID)

	// Only fields that already have a prediction get the canned overwrite.
	upd := a.predictions.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "ownerId": uid},
		bson.M{"$set": bson.M{
			"status":         models.PredictionWait,
			"moistureLevel":  loggedMoistureLevel,
			"recommendation": loggedRecommendation[lang],
			"nextIrrigation": loggedNextIrrigation[lang],
			"lastUpdated":    time.Now().UTC(),
		}},
		mongoAfter(),
	)
	var pred models.Prediction
	out := bson.M{"event": ev}
	if err := upd.Decode(&pred); err == nil {
		out["prediction"] = pred
	}
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(out)
}

// handleListPredictions returns every stored prediction for the user.
func (a *App) handleListPredictions(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.predictions.Find(ctx, bson.M{"ownerId": uid})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	out := []models.Prediction{}
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// handleListIrrigationEvents returns the 20 most recent watering logs,
// newest first.
func (a *App) handleListIrrigationEvents(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	cur, err := a.events.Find(ctx, bson.M{"ownerId": uid},
		options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(20))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	out := []models.IrrigationEvent{}
	if err := cur.All(ctx, &out); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (a *App) handleDeleteIrrigationEvent(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	res, err := a.events.DeleteOne(ctx, bson.M{"_id": oid, "ownerId": uid})
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

// ---- helpers ----

// requestLang normalizes the ?lang= parameter to a supported display
// language, defaulting to English.
func requestLang(r *http.Request) string {
	switch l := r.URL.Query().Get("lang"); l {
	case "fr", "ar":
		return l
	default:
		return "en"
	}
}

// loadProfile fetches the user's farm profile; nil when onboarding never
// happened.
func (a *App) loadProfile(ctx context.Context, uid primitive.ObjectID) (*models.FarmProfile, error) {
	var u models.User
	if err := a.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
		return nil, err
	}
	return u.FarmProfile, nil
}

// weatherForProfile fetches a weather snapshot for the farm's location.
// Best effort: any failure is logged and the caller proceeds without
// weather, which switches the prompt to seasonal assumptions.
func (a *App) weatherForProfile(ctx context.Context, profile *models.FarmProfile) *WeatherData {
	if profile == nil || profile.Location == "" {
		return nil
	}
	lat, lon := 0.0, 0.0
	if profile.Latitude != nil && profile.Longitude != nil {
		lat, lon = *profile.Latitude, *profile.Longitude
	} else {
		var err error
		lat, lon, err = a.weather.Geocode(ctx, profile.Location)
		if err != nil {
			log.Printf("weather lookup skipped: %v", err)
			return nil
		}
	}
	data, err := a.weather.Forecast(ctx, lat, lon)
	if err != nil {
		log.Printf("weather lookup skipped: %v", err)
		return nil
	}
	return data
}

// writeAnalysisError maps advisor failures to HTTP statuses.
func writeAnalysisError(w http.ResponseWriter, field *models.Field, err error) {
	log.Printf("error analyzing field %s: %v", field.FieldName, err)
	switch {
	case errors.Is(err, errFieldNotAnalyzable):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNoAPIKey):
		http.Error(w, "ai analysis unavailable: api key not configured", http.StatusServiceUnavailable)
	case errors.Is(err, ErrMalformedResponse):
		http.Error(w, "ai response could not be validated", http.StatusBadGateway)
	default:
		http.Error(w, "analysis failed", http.StatusBadGateway)
	}
}
