package main

import (
	"testing"

	"agrosense/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacyCropsFromFlatFields(t *testing.T) {
	crops := legacyCrops(legacyField{
		CurrentCrop:  "Wheat",
		PlantingDate: "2025-10-01",
		HarvestDate:  "2026-06-15",
	})

	require.Len(t, crops, 1)
	assert.NotEmpty(t, crops[0].ID)
	assert.Equal(t, "Wheat", crops[0].Name)
	assert.Equal(t, "2025-10-01", crops[0].PlantingDate)
	assert.Equal(t, "2026-06-15", crops[0].ExpectedHarvestDate)
}

func TestLegacyCropsKeepsExistingArray(t *testing.T) {
	existing := []models.Crop{{ID: "c1", Name: "Corn"}}
	crops := legacyCrops(legacyField{
		Crops:       existing,
		CurrentCrop: "Wheat",
	})

	assert.Equal(t, existing, crops)
}

func TestLegacyCropsEmptyDocument(t *testing.T) {
	crops := legacyCrops(legacyField{})

	assert.NotNil(t, crops)
	assert.Empty(t, crops)
}
