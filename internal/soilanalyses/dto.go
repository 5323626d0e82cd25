package soilanalyses

import (
	"encoding/json"
	"time"

	"agri-backend/internal/soil"
)

type createRequest struct {
	SoilParameters soil.ParameterSet `json:"soilParameters"`
	Location       *Location         `json:"location"`
	FarmID         string            `json:"farmId"`
	Farm           string            `json:"farm"`
	TestMethod     string            `json:"testMethod"`
	SensorData     *SensorData       `json:"sensorData"`
}

func (r createRequest) input() CreateInput {
	farmID := r.FarmID
	if farmID == "" {
		farmID = r.Farm
	}
	return CreateInput{
		SoilParameters: r.SoilParameters,
		Location:       r.Location,
		FarmID:         farmID,
		TestMethod:     r.TestMethod,
		SensorData:     r.SensorData,
	}
}

type updateRequest struct {
	SoilParameters soil.ParameterSet `json:"soilParameters"`
	Location       *Location         `json:"location"`
	FarmID         *string           `json:"farmId"`
	TestMethod     *string           `json:"testMethod"`
	SensorData     *SensorData       `json:"sensorData"`
	IsShared       *bool             `json:"isShared"`
	Status         *string           `json:"status"`
}

func (r updateRequest) input() UpdateInput {
	return UpdateInput(r)
}

type shareRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

type analyzeResponse struct {
	Parameters json.RawMessage `json:"parameters"`
	Analysis   soil.Result     `json:"analysis"`
	Timestamp  time.Time       `json:"timestamp"`
}

type cropsResponse struct {
	SuitableCrops []soil.SuitableCrop `json:"suitableCrops"`
	SoilHealth    soil.Health         `json:"soilHealth"`
	OverallScore  int                 `json:"overallScore"`
}

type recommendationsResponse struct {
	Recommendations []soil.Recommendation `json:"recommendations"`
	SuitableCrops   []soil.SuitableCrop   `json:"suitableCrops"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type listResponse struct {
	Analyses   []Analysis `json:"analyses"`
	Pagination pagination `json:"pagination"`
}
