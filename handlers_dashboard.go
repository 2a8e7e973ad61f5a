package main

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"agrosense/models"

	"go.mongodb.org/mongo-driver/bson"
)

// handleDashboardSummary recomputes the derived aggregates over the user's
// current documents. Nothing here is cached or persisted.
func (a *App) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var fields []models.Field
	cur, err := a.fields.Find(ctx, bson.M{"ownerId": uid})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if err := cur.All(ctx, &fields); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}

	var preds []models.Prediction
	cur, err = a.predictions.Find(ctx, bson.M{"ownerId": uid})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if err := cur.All(ctx, &preds); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}

	var tasks []models.Task
	cur, err = a.tasks.Find(ctx, bson.M{"ownerId": uid})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if err := cur.All(ctx, &tasks); err != nil {
		http.Error(w, "decode error", http.StatusInternalServerError)
		return
	}

	profile, _ := a.loadProfile(ctx, uid)

	summary := dashboardSummary{
		CultivatedArea:   cultivatedArea(fields),
		ActiveFields:     activeFieldCount(fields),
		TotalFields:      len(fields),
		AvgMoisture:      averageMoisture(preds),
		CriticalFields:   criticalFieldCount(preds),
		CropDistribution: cropDistribution(fields),
	}
	if profile != nil {
		summary.TotalFarmArea = profile.TotalArea
		summary.AreaUnit = profile.AreaUnit
	}
	summary.UtilizationRate = utilizationRate(summary.CultivatedArea, summary.TotalFarmArea)
	summary.PendingTasks, summary.InProgressTasks, summary.CompletedTasks = taskStatusCounts(tasks)

	var soil models.SoilHealth
	if err := a.soil.FindOne(ctx, bson.M{"ownerId": uid}).Decode(&soil); err == nil {
		summary.SoilHealth = &soil
	}

	_ = json.NewEncoder(w).Encode(summary)
}

// handleWeather returns current conditions and the 7-day forecast, either
// for explicit ?lat=&lon= coordinates or for the farm profile's location.
func (a *App) handleWeather(w http.ResponseWriter, r *http.Request) {
	uid := mustUserID(r)
	ctx, cancel := context.WithTimeout(r.Context(), 20*time.Second)
	defer cancel()

	latStr, lonStr := r.URL.Query().Get("lat"), r.URL.Query().Get("lon")
	var lat, lon float64
	if latStr != "" && lonStr != "" {
		var err1, err2 error
		lat, err1 = strconv.ParseFloat(latStr, 64)
		lon, err2 = strconv.ParseFloat(lonStr, 64)
		if err1 != nil || err2 != nil {
			http.Error(w, "bad coordinates", http.StatusBadRequest)
			return
		}
	} else {
		profile, err := a.loadProfile(ctx, uid)
		if err != nil || profile == nil || profile.Location == "" {
			http.Error(w, "no farm location set", http.StatusBadRequest)
			return
		}
		if profile.Latitude != nil && profile.Longitude != nil {
			lat, lon = *profile.Latitude, *profile.Longitude
		} else if lat, lon, err = a.weather.Geocode(ctx, profile.Location); err != nil {
			http.Error(w, "location could not be resolved", http.StatusBadGateway)
			return
		}
	}

	data, err := a.weather.Forecast(ctx, lat, lon)
	if err != nil {
		http.Error(w, "weather unavailable", http.StatusBadGateway)
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

// handleReverseGeocode resolves coordinates to a place name for the
// settings screen's "use my location" flow.
func (a *App) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	lat, err1 := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, err2 := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "lat and lon are required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()
	place, err := a.weather.ReverseGeocode(ctx, lat, lon)
	if err != nil {
		http.Error(w, "reverse geocoding failed", http.StatusBadGateway)
		return
	}
	_ = json.NewEncoder(w).Encode(bson.M{
		"location":  place,
		"latitude":  lat,
		"longitude": lon,
	})
}
