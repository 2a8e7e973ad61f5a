package main

import (
	"sort"

	"agrosense/models"
)

// Derived aggregates shown on the dashboard. All of these are pure
// recomputations over the user's current documents; nothing here is
// persisted.

// CropShare is the approximate area attributed to one crop species across
// all fields.
type CropShare struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// cultivatedArea sums field areas regardless of status.
func cultivatedArea(fields []models.Field) float64 {
	total := 0.0
	for _, f := range fields {
		total += f.Area
	}
	return total
}

// utilizationRate returns cultivated/total as a percentage. A farm with no
// recorded total area utilizes 0%, never a division by zero. The value is
// not clamped above 100; over-allocation is a data entry problem the UI
// surfaces as-is.
func utilizationRate(cultivated, totalFarmArea float64) float64 {
	if totalFarmArea <= 0 {
		return 0
	}
	return cultivated / totalFarmArea * 100
}

func activeFieldCount(fields []models.Field) int {
	n := 0
	for _, f := range fields {
		if f.Status == models.FieldStatusActive {
			n++
		}
	}
	return n
}

// averageMoisture is the arithmetic mean of moisture levels across current
// predictions, 0 when there are none.
func averageMoisture(preds []models.Prediction) float64 {
	if len(preds) == 0 {
		return 0
	}
	sum := 0.0
	for _, p := range preds {
		sum += p.MoistureLevel
	}
	return sum / float64(len(preds))
}

// criticalFieldCount counts predictions demanding attention: either the
// model asked for irrigation or flagged the field critical.
func criticalFieldCount(preds []models.Prediction) int {
	n := 0
	for _, p := range preds {
		if p.Status == models.PredictionIrrigate || p.Status == models.PredictionCritical {
			n++
		}
	}
	return n
}

// cropDistribution attributes each field's area evenly across its crop
// list and accumulates by crop name. An approximation for intercropped
// fields; summing the shares reproduces the cultivated area of all fields
// that grow anything. Output is sorted by descending share, ties by name.
func cropDistribution(fields []models.Field) []CropShare {
	byName := map[string]float64{}
	for _, f := range fields {
		if len(f.Crops) == 0 {
			continue
		}
		areaPerCrop := f.Area / float64(len(f.Crops))
		for _, c := range f.Crops {
			byName[c.Name] += areaPerCrop
		}
	}

	out := make([]CropShare, 0, len(byName))
	for name, v := range byName {
		out = append(out, CropShare{Name: name, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func taskStatusCounts(tasks []models.Task) (pending, inProgress, completed int) {
	for _, t := range tasks {
		switch t.Status {
		case models.TaskPending:
			pending++
		case models.TaskInProgress:
			inProgress++
		case models.TaskCompleted:
			completed++
		}
	}
	return
}
