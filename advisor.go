package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"agrosense/models"

	"google.golang.org/genai"
)

// ErrNoAPIKey is returned when an analysis endpoint is hit without a
// configured Gemini key.
var ErrNoAPIKey = errors.New("gemini api key not configured")

// ErrMalformedResponse marks AI output that failed contract validation.
// Callers abort the operation and persist nothing.
var ErrMalformedResponse = errors.New("malformed ai response")

// Advisor wraps the Gemini client behind the two calls this application
// makes: irrigation analysis (schema-constrained) and crop diagnosis
// (multimodal, defensively parsed).
type Advisor struct {
	client *genai.Client
	model  string
}

func newAdvisor(ctx context.Context, apiKey, model string) (*Advisor, error) {
	if apiKey == "" {
		// Run without intelligence features rather than refusing to boot.
		return &Advisor{model: model}, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Advisor{client: client, model: model}, nil
}

// irrigationAssessment is the decoded irrigation response. The handler
// turns it into a stored Prediction.
type irrigationAssessment struct {
	Status             models.PredictionStatus `json:"status"`
	MoistureLevel      float64                 `json:"moistureLevel"`
	Recommendation     string                  `json:"recommendation"`
	WaterAmount        string                  `json:"waterAmount"`
	NextIrrigation     string                  `json:"nextIrrigation"`
	Confidence         float64                 `json:"confidence"`
	Evapotranspiration float64                 `json:"evapotranspiration"`
	FieldCapacity      float64                 `json:"fieldCapacity"`
	WiltingPoint       float64                 `json:"wiltingPoint"`
	Forecast           []models.ForecastDay    `json:"forecast"`
}

// cropDiagnosis is the decoded crop-doctor response.
type cropDiagnosis struct {
	Diagnosis  string   `json:"diagnosis"`
	Confidence string   `json:"confidence"`
	Symptoms   []string `json:"symptoms"`
	Treatment  []string `json:"treatment"`
	Prevention []string `json:"prevention"`
}

func promptLanguage(lang string) string {
	switch lang {
	case "fr":
		return "French"
	case "ar":
		return "Arabic"
	default:
		return "English"
	}
}

// buildIrrigationPrompt embeds field, farm and weather facts into the
// agronomist prompt. When weather is nil the model is told to assume
// typical seasonal conditions.
func buildIrrigationPrompt(field *models.Field, profile *models.FarmProfile, weather *WeatherData, lang string, today time.Time) string {
	cropNames := make([]string, 0, len(field.Crops))
	for _, c := range field.Crops {
		cropNames = append(cropNames, c.Name)
	}
	crops := strings.Join(cropNames, ", ")
	if crops == "" {
		crops = field.FieldName
	}
	plantingDate := "unknown"
	if len(field.Crops) > 0 && field.Crops[0].PlantingDate != "" {
		plantingDate = field.Crops[0].PlantingDate
	}
	location := "unknown"
	if profile != nil && profile.Location != "" {
		location = profile.Location
	}

	weatherContext := "Assume typical weather for this season and location."
	if weather != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "Real-time Weather Forecast for %s:\n", location)
		fmt.Fprintf(&b, "Current: %.1f°C, %s, Humidity %.0f%%\n",
			weather.Current.Temp, weather.Current.Condition, weather.Current.Humidity)
		fmt.Fprintf(&b, "Soil Temperature (6cm depth): %.1f°C\n", weather.Current.SoilTemp)
		fmt.Fprintf(&b, "Soil Moisture (3-9cm depth): %.3f m³/m³\n", weather.Current.SoilMoisture)
		b.WriteString("Forecast:\n")
		for _, d := range weather.Forecast {
			fmt.Fprintf(&b, "- %s: %s, Max %.1f°C, Min %.1f°C, Rain Prob %.0f%%\n",
				d.Date, d.Condition, d.MaxTemp, d.MinTemp, d.RainProb)
		}
		weatherContext = b.String()
	}

	return fmt.Sprintf(`Act as an expert agronomist AI. Analyze irrigation needs for this field:
- Field Name: %s
- Location: %s
- Soil Type: %s
- Crops: %s (Planted: %s)
- Irrigation Method: %s
- Field Size: %g %s
- Current Date: %s

%s

Consider the soil temperature and moisture data if available.

IMPORTANT: Provide the 'recommendation', 'waterAmount', and 'nextIrrigation' fields in %s.

Keep the recommendation under 15 words. Provide exactly 7 forecast entries, one per weekday starting today.`,
		field.FieldName, location, field.SoilType, crops, plantingDate,
		field.IrrigationType, field.Area, field.AreaUnit,
		today.Format("2006-01-02"), weatherContext, promptLanguage(lang))
}

// irrigationSchema constrains the model to the prediction contract.
func irrigationSchema() *genai.Schema {
	return &genai.Schema{
		Type: "object",
		Properties: map[string]*genai.Schema{
			"status": {
				Type: "string",
				Enum: []string{"Irrigate", "Wait", "Critical"},
			},
			"moistureLevel":      {Type: "number", Description: "Current soil moisture estimate, 0-100."},
			"recommendation":     {Type: "string", Description: "Actionable advice, max 15 words."},
			"waterAmount":        {Type: "string", Description: "e.g. '15mm' or '2000 Liters'."},
			"nextIrrigation":     {Type: "string", Description: "e.g. 'In 2 days' or 'Today'."},
			"confidence":         {Type: "number", Description: "Assessment confidence, 0-100."},
			"evapotranspiration": {Type: "number", Description: "mm/day estimate."},
			"fieldCapacity":      {Type: "number", Description: "Soil capacity %."},
			"wiltingPoint":       {Type: "number", Description: "Wilting point %."},
			"forecast": {
				Type:        "array",
				Description: "7-day moisture projection.",
				Items: &genai.Schema{
					Type: "object",
					Properties: map[string]*genai.Schema{
						"day":      {Type: "string"},
						"moisture": {Type: "number"},
						"rainProb": {Type: "number"},
					},
					Required: []string{"day", "moisture", "rainProb"},
				},
			},
		},
		Required: []string{
			"status", "moistureLevel", "recommendation", "waterAmount",
			"nextIrrigation", "confidence", "evapotranspiration",
			"fieldCapacity", "wiltingPoint", "forecast",
		},
	}
}

// AnalyzeIrrigation runs the schema-constrained irrigation call and
// validates the result.
func (ad *Advisor) AnalyzeIrrigation(ctx context.Context, field *models.Field, profile *models.FarmProfile, weather *WeatherData, lang string) (*irrigationAssessment, error) {
	if ad.client == nil {
		return nil, ErrNoAPIKey
	}

	prompt := buildIrrigationPrompt(field, profile, weather, lang, time.Now())
	res, err := ad.client.Models.GenerateContent(ctx, ad.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   irrigationSchema(),
		})
	if err != nil {
		return nil, fmt.Errorf("irrigation analysis: %w", err)
	}
	text, err := responseText(res)
	if err != nil {
		return nil, err
	}
	return parseIrrigationResponse(text)
}

// DiagnoseCrop runs the multimodal crop-doctor call. No response schema is
// enforced upstream, so the decode is defensive.
func (ad *Advisor) DiagnoseCrop(ctx context.Context, imageData []byte, mimeType string) (*cropDiagnosis, error) {
	if ad.client == nil {
		return nil, ErrNoAPIKey
	}

	prompt := `Analyze this image of a crop.
Identify the plant.
Diagnose any diseases, pests, or deficiencies visible.
If healthy, state that.

Provide the response in this JSON format:
{
  "diagnosis": "Name of disease/pest or 'Healthy'",
  "confidence": "High/Medium/Low",
  "symptoms": ["symptom 1", "symptom 2"],
  "treatment": ["treatment step 1", "treatment step 2"],
  "prevention": ["prevention tip 1", "prevention tip 2"]
}`

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromText(prompt),
		genai.NewPartFromBytes(imageData, mimeType),
	}, genai.RoleUser)

	res, err := ad.client.Models.GenerateContent(ctx, ad.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"})
	if err != nil {
		return nil, fmt.Errorf("crop diagnosis: %w", err)
	}
	text, err := responseText(res)
	if err != nil {
		return nil, err
	}
	return parseDiagnosisResponse(text)
}

// responseText extracts the single text part of a generation result.
func responseText(res *genai.GenerateContentResponse) (string, error) {
	if len(res.Candidates) == 0 || res.Candidates[0].Content == nil ||
		len(res.Candidates[0].Content.Parts) == 0 ||
		res.Candidates[0].Content.Parts[0].Text == "" {
		return "", fmt.Errorf("%w: empty generation result", ErrMalformedResponse)
	}
	return res.Candidates[0].Content.Parts[0].Text, nil
}

// parseIrrigationResponse decodes and validates the irrigation contract:
// enumerated status and exactly 7 forecast entries. Numeric percentages
// are clamped to [0,100] rather than rejected.
func parseIrrigationResponse(text string) (*irrigationAssessment, error) {
	var out irrigationAssessment
	if err := json.Unmarshal([]byte(stripFences(text)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if !models.ValidPredictionStatus(out.Status) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrMalformedResponse, out.Status)
	}
	if out.Recommendation == "" {
		return nil, fmt.Errorf("%w: missing recommendation", ErrMalformedResponse)
	}
	if len(out.Forecast) != 7 {
		return nil, fmt.Errorf("%w: expected 7 forecast entries, got %d", ErrMalformedResponse, len(out.Forecast))
	}
	out.MoistureLevel = clampPct(out.MoistureLevel)
	out.Confidence = clampPct(out.Confidence)
	for i := range out.Forecast {
		out.Forecast[i].Moisture = clampPct(out.Forecast[i].Moisture)
		out.Forecast[i].RainProb = clampPct(out.Forecast[i].RainProb)
	}
	return &out, nil
}

// parseDiagnosisResponse tolerates missing list fields but requires a
// diagnosis.
func parseDiagnosisResponse(text string) (*cropDiagnosis, error) {
	var out cropDiagnosis
	if err := json.Unmarshal([]byte(stripFences(text)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(out.Diagnosis) == "" {
		return nil, fmt.Errorf("%w: missing diagnosis", ErrMalformedResponse)
	}
	if out.Confidence == "" {
		out.Confidence = "Medium"
	}
	if out.Symptoms == nil {
		out.Symptoms = []string{}
	}
	if out.Treatment == nil {
		out.Treatment = []string{}
	}
	if out.Prevention == nil {
		out.Prevention = []string{}
	}
	return &out, nil
}

// stripFences removes a markdown code fence if the model wrapped its JSON
// in one despite the JSON mime type.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
