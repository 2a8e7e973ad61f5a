package main

import (
	"agrosense/models"
)

// Request/response DTOs. Keep them minimal and explicit.

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
}

type profileReq struct {
	FarmProfile models.FarmProfile `json:"farmProfile"`
}

type cropReq struct {
	ID                  string `json:"id,omitempty"` // empty for new crops
	Name                string `json:"name"`
	PlantingDate        string `json:"plantingDate,omitempty"`
	ExpectedHarvestDate string `json:"expectedHarvestDate,omitempty"`
}

type fieldReq struct {
	FieldName      string             `json:"fieldName"`
	Area           float64            `json:"area"`
	AreaUnit       string             `json:"areaUnit,omitempty"`
	SoilType       string             `json:"soilType"`
	IrrigationType string             `json:"irrigationType"`
	Crops          []cropReq          `json:"crops,omitempty"`
	Status         models.FieldStatus `json:"status,omitempty"`
	Notes          string             `json:"notes,omitempty"`
}

type taskReq struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Priority    models.TaskPriority `json:"priority,omitempty"`
	DueDate     string              `json:"dueDate,omitempty"`
}

type soilHealthReq struct {
	PH            float64 `json:"ph"`
	Nitrogen      float64 `json:"nitrogen"`
	Phosphorus    float64 `json:"phosphorus"`
	Potassium     float64 `json:"potassium"`
	OrganicMatter float64 `json:"organicMatter"`
}

type analyzeResp struct {
	Prediction *models.Prediction `json:"prediction"`
}

type analyzeAllResp struct {
	Analyzed int      `json:"analyzed"`
	Failed   int      `json:"failed"`
	Errors   []string `json:"errors,omitempty"`
}

type dashboardSummary struct {
	TotalFarmArea      float64            `json:"totalFarmArea"`
	AreaUnit           string             `json:"areaUnit,omitempty"`
	CultivatedArea     float64            `json:"cultivatedArea"`
	UtilizationRate    float64            `json:"utilizationRate"` // percent
	ActiveFields       int                `json:"activeFields"`
	TotalFields        int                `json:"totalFields"`
	AvgMoisture        float64            `json:"avgMoisture"` // percent, 0 when no predictions
	CriticalFields     int                `json:"criticalFields"`
	CropDistribution   []CropShare        `json:"cropDistribution"`
	SoilHealth         *models.SoilHealth `json:"soilHealth,omitempty"`
	PendingTasks       int                `json:"pendingTasks"`
	InProgressTasks    int                `json:"inProgressTasks"`
	CompletedTasks     int                `json:"completedTasks"`
}
