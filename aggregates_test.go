package main

import (
	"testing"

	"agrosense/models"

	"github.com/stretchr/testify/assert"
)

func field(name string, area float64, status models.FieldStatus, crops ...string) models.Field {
	f := models.Field{FieldName: name, Area: area, Status: status}
	for _, c := range crops {
		f.Crops = append(f.Crops, models.Crop{ID: c, Name: c})
	}
	return f
}

func TestCultivatedArea(t *testing.T) {
	fields := []models.Field{
		field("North", 10, models.FieldStatusActive, "Corn"),
		field("South", 5.5, models.FieldStatusFallow),
	}
	assert.InDelta(t, 15.5, cultivatedArea(fields), 1e-9)
	assert.Zero(t, cultivatedArea(nil))
}

func TestUtilizationRate(t *testing.T) {
	assert.InDelta(t, 50.0, utilizationRate(10, 20), 1e-9)
	// A farm without a recorded total area utilizes 0%, not NaN.
	assert.Zero(t, utilizationRate(10, 0))
	// Over-allocation is reported as-is, not clamped.
	assert.InDelta(t, 150.0, utilizationRate(15, 10), 1e-9)
}

func TestAverageMoisture(t *testing.T) {
	assert.Zero(t, averageMoisture(nil))

	preds := []models.Prediction{
		{MoistureLevel: 30},
		{MoistureLevel: 60},
		{MoistureLevel: 90},
	}
	assert.InDelta(t, 60.0, averageMoisture(preds), 1e-9)
}

func TestCriticalFieldCount(t *testing.T) {
	preds := []models.Prediction{
		{Status: models.PredictionIrrigate},
		{Status: models.PredictionWait},
		{Status: models.PredictionCritical},
		{Status: models.PredictionCritical},
	}
	assert.Equal(t, 3, criticalFieldCount(preds))
	assert.Zero(t, criticalFieldCount(nil))
}

func TestCropDistributionSplitsAreaEvenly(t *testing.T) {
	fields := []models.Field{
		field("North", 10, models.FieldStatusActive, "Corn", "Soy"),
		field("South", 5, models.FieldStatusActive, "Corn"),
	}

	dist := cropDistribution(fields)
	assert.Equal(t, []CropShare{
		{Name: "Corn", Value: 10},
		{Name: "Soy", Value: 5},
	}, dist)
}

func TestCropDistributionSumsToCultivatedArea(t *testing.T) {
	fields := []models.Field{
		field("A", 12, models.FieldStatusActive, "Wheat", "Barley", "Oats"),
		field("B", 7, models.FieldStatusFallow, "Wheat"),
		field("C", 3.3, models.FieldStatusActive, "Soy", "Corn"),
	}

	total := 0.0
	for _, share := range cropDistribution(fields) {
		total += share.Value
	}
	assert.InDelta(t, cultivatedArea(fields), total, 1e-9)
}

func TestCropDistributionSkipsCroplessFields(t *testing.T) {
	fields := []models.Field{
		field("Bare", 40, models.FieldStatusPrepared),
	}
	assert.Empty(t, cropDistribution(fields))
}

func TestActiveFieldCount(t *testing.T) {
	fields := []models.Field{
		field("A", 1, models.FieldStatusActive),
		field("B", 1, models.FieldStatusHarvested),
		field("C", 1, models.FieldStatusActive),
	}
	assert.Equal(t, 2, activeFieldCount(fields))
}

func TestTaskStatusCounts(t *testing.T) {
	tasks := []models.Task{
		{Status: models.TaskPending},
		{Status: models.TaskPending},
		{Status: models.TaskInProgress},
		{Status: models.TaskCompleted},
	}
	p, ip, c := taskStatusCounts(tasks)
	assert.Equal(t, 2, p)
	assert.Equal(t, 1, ip)
	assert.Equal(t, 1, c)
}
