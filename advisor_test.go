package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"agrosense/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testField() *models.Field {
	return &models.Field{
		FieldName:      "North Plot",
		Area:           12,
		AreaUnit:       "acres",
		SoilType:       "Loam",
		IrrigationType: "Drip",
		Crops: []models.Crop{
			{ID: "c1", Name: "Corn", PlantingDate: "2026-04-10"},
			{ID: "c2", Name: "Soy"},
		},
	}
}

func TestBuildIrrigationPromptIncludesFieldFacts(t *testing.T) {
	profile := &models.FarmProfile{Location: "Marrakesh, Morocco"}
	weather := &WeatherData{
		Current: CurrentWeather{Temp: 31.2, Condition: "Clear sky", Humidity: 22, SoilTemp: 27.5, SoilMoisture: 0.12},
		Forecast: []DailyWeather{
			{Date: "2026-08-31", Condition: "Clear sky", MaxTemp: 33, MinTemp: 19, RainProb: 0},
		},
	}
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	prompt := buildIrrigationPrompt(testField(), profile, weather, "en", today)

	assert.Contains(t, prompt, "North Plot")
	assert.Contains(t, prompt, "Marrakesh, Morocco")
	assert.Contains(t, prompt, "Corn, Soy")
	assert.Contains(t, prompt, "Planted: 2026-04-10")
	assert.Contains(t, prompt, "12 acres")
	assert.Contains(t, prompt, "2026-08-31")
	assert.Contains(t, prompt, "Real-time Weather Forecast for Marrakesh, Morocco")
	assert.Contains(t, prompt, "Soil Moisture (3-9cm depth): 0.120")
	assert.Contains(t, prompt, "in English")
	assert.NotContains(t, prompt, "Assume typical weather")
}

func TestBuildIrrigationPromptSeasonalFallback(t *testing.T) {
	prompt := buildIrrigationPrompt(testField(), nil, nil, "fr", time.Now())

	assert.Contains(t, prompt, "Assume typical weather for this season and location.")
	assert.Contains(t, prompt, "Location: unknown")
	assert.Contains(t, prompt, "in French")
}

func TestPromptLanguage(t *testing.T) {
	assert.Equal(t, "English", promptLanguage("en"))
	assert.Equal(t, "French", promptLanguage("fr"))
	assert.Equal(t, "Arabic", promptLanguage("ar"))
	assert.Equal(t, "English", promptLanguage("de"))
}

const validIrrigationJSON = `{
	"status": "Irrigate",
	"moistureLevel": 34,
	"recommendation": "Water 15mm in the early morning",
	"waterAmount": "15mm",
	"nextIrrigation": "Today",
	"confidence": 82,
	"evapotranspiration": 5.1,
	"fieldCapacity": 60,
	"wiltingPoint": 20,
	"forecast": [
		{"day": "Mon", "moisture": 34, "rainProb": 0},
		{"day": "Tue", "moisture": 30, "rainProb": 10},
		{"day": "Wed", "moisture": 27, "rainProb": 0},
		{"day": "Thu", "moisture": 25, "rainProb": 40},
		{"day": "Fri", "moisture": 35, "rainProb": 60},
		{"day": "Sat", "moisture": 42, "rainProb": 20},
		{"day": "Sun", "moisture": 38, "rainProb": 0}
	]
}`

func TestParseIrrigationResponse(t *testing.T) {
	out, err := parseIrrigationResponse(validIrrigationJSON)
	require.NoError(t, err)

	assert.Equal(t, models.PredictionIrrigate, out.Status)
	assert.InDelta(t, 34, out.MoistureLevel, 1e-9)
	assert.Equal(t, "15mm", out.WaterAmount)
	assert.Len(t, out.Forecast, 7)
}

func TestParseIrrigationResponseStripsFences(t *testing.T) {
	fenced := "```json\n" + validIrrigationJSON + "\n```"
	out, err := parseIrrigationResponse(fenced)
	require.NoError(t, err)
	assert.Equal(t, models.PredictionIrrigate, out.Status)
}

func TestParseIrrigationResponseRejectsUnknownStatus(t *testing.T) {
	bad := strings.Replace(validIrrigationJSON, `"Irrigate"`, `"Flood"`, 1)
	_, err := parseIrrigationResponse(bad)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseIrrigationResponseRejectsShortForecast(t *testing.T) {
	bad := `{
		"status": "Wait",
		"moistureLevel": 70,
		"recommendation": "No watering needed",
		"waterAmount": "0mm",
		"nextIrrigation": "In 3 days",
		"confidence": 90,
		"evapotranspiration": 3,
		"fieldCapacity": 60,
		"wiltingPoint": 20,
		"forecast": [{"day": "Mon", "moisture": 70, "rainProb": 0}]
	}`
	_, err := parseIrrigationResponse(bad)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.ErrorContains(t, err, "expected 7 forecast entries")
}

func TestParseIrrigationResponseRejectsMissingRecommendation(t *testing.T) {
	bad := strings.Replace(validIrrigationJSON, "Water 15mm in the early morning", "", 1)
	_, err := parseIrrigationResponse(bad)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseIrrigationResponseClampsPercentages(t *testing.T) {
	wild := strings.Replace(validIrrigationJSON, `"moistureLevel": 34`, `"moistureLevel": 140`, 1)
	wild = strings.Replace(wild, `"confidence": 82`, `"confidence": -5`, 1)
	wild = strings.Replace(wild, `{"day": "Tue", "moisture": 30, "rainProb": 10}`,
		`{"day": "Tue", "moisture": 130, "rainProb": -10}`, 1)

	out, err := parseIrrigationResponse(wild)
	require.NoError(t, err)
	assert.InDelta(t, 100, out.MoistureLevel, 1e-9)
	assert.Zero(t, out.Confidence)
	assert.InDelta(t, 100, out.Forecast[1].Moisture, 1e-9)
	assert.Zero(t, out.Forecast[1].RainProb)
}

func TestParseIrrigationResponseRejectsGarbage(t *testing.T) {
	_, err := parseIrrigationResponse("I could not analyze that field.")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseDiagnosisResponse(t *testing.T) {
	out, err := parseDiagnosisResponse(`{
		"diagnosis": "Powdery Mildew",
		"confidence": "High",
		"symptoms": ["white spots on leaves"],
		"treatment": ["apply sulfur fungicide"],
		"prevention": ["improve air circulation"]
	}`)
	require.NoError(t, err)
	assert.Equal(t, "Powdery Mildew", out.Diagnosis)
	assert.Equal(t, "High", out.Confidence)
	assert.Len(t, out.Symptoms, 1)
}

func TestParseDiagnosisResponseDefaults(t *testing.T) {
	out, err := parseDiagnosisResponse(`{"diagnosis": "Healthy"}`)
	require.NoError(t, err)

	assert.Equal(t, "Medium", out.Confidence)
	assert.NotNil(t, out.Symptoms)
	assert.NotNil(t, out.Treatment)
	assert.NotNil(t, out.Prevention)
	assert.Empty(t, out.Symptoms)
}

func TestParseDiagnosisResponseRequiresDiagnosis(t *testing.T) {
	_, err := parseDiagnosisResponse(`{"confidence": "High"}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = parseDiagnosisResponse(`{"diagnosis": "   "}`)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences(`{"a":1}`))
}

func TestAdvisorWithoutKeyReturnsErrNoAPIKey(t *testing.T) {
	ad := &Advisor{model: "gemini-2.5-flash"}

	_, err := ad.AnalyzeIrrigation(context.Background(), testField(), nil, nil, "en")
	assert.ErrorIs(t, err, ErrNoAPIKey)

	_, err = ad.DiagnoseCrop(context.Background(), []byte{0xff}, "image/jpeg")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}
