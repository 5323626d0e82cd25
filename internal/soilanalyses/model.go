package soilanalyses

import (
	"time"

	"agri-backend/internal/soil"
)

const (
	StatusPending        = "pending"
	StatusCompleted      = "completed"
	StatusRequiresReview = "requires_review"
)

const (
	TestMethodManual       = "manual"
	TestMethodSensor       = "sensor"
	TestMethodLaboratory   = "laboratory"
	TestMethodAIEstimation = "ai_estimation"
)

const (
	ShareRoleView = "view"
	ShareRoleEdit = "edit"
)

const (
	ImageSoilSample = "soil_sample"
	ImageFieldPhoto = "field_photo"
	ImageTestResult = "test_result"
)

// Location pins a sample to a plot. Coordinates are [longitude, latitude].
type Location struct {
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
	Address     string    `json:"address,omitempty" bson:"address,omitempty"`
	PlotNumber  string    `json:"plotNumber,omitempty" bson:"plotNumber,omitempty"`
}

// SensorData describes the probe that produced a sensor reading.
type SensorData struct {
	SensorID        string     `json:"sensorId,omitempty" bson:"sensorId,omitempty"`
	DeviceModel     string     `json:"deviceModel,omitempty" bson:"deviceModel,omitempty"`
	CalibrationDate *time.Time `json:"calibrationDate,omitempty" bson:"calibrationDate,omitempty"`
	Accuracy        *float64   `json:"accuracy,omitempty" bson:"accuracy,omitempty"`
}

// Image is a photo attached to an analysis. Key addresses the object store.
type Image struct {
	ID          string    `json:"id" bson:"id"`
	Key         string    `json:"-" bson:"key"`
	URL         string    `json:"url" bson:"url"`
	Caption     string    `json:"caption,omitempty" bson:"caption,omitempty"`
	Type        string    `json:"type" bson:"type"`
	ContentType string    `json:"contentType" bson:"contentType"`
	Size        int64     `json:"size" bson:"size"`
	UploadedAt  time.Time `json:"uploadedAt" bson:"uploadedAt"`
}

// Share grants another user access to an analysis.
type Share struct {
	UserID   string    `json:"userId" bson:"userId"`
	Role     string    `json:"role" bson:"role"`
	SharedAt time.Time `json:"sharedAt" bson:"sharedAt"`
}

// Analysis is a persisted soil test with its computed advisory result.
type Analysis struct {
	ID             string            `json:"id" bson:"_id"`
	UserID         string            `json:"userId" bson:"userId"`
	FarmID         string            `json:"farmId,omitempty" bson:"farmId,omitempty"`
	Location       Location          `json:"location" bson:"location"`
	SoilParameters soil.ParameterSet `json:"soilParameters" bson:"soilParameters"`
	Result         soil.Result       `json:"analysis" bson:"analysis"`
	TestMethod     string            `json:"testMethod" bson:"testMethod"`
	SensorData     *SensorData       `json:"sensorData,omitempty" bson:"sensorData,omitempty"`
	Images         []Image           `json:"images" bson:"images"`
	IsShared       bool              `json:"isShared" bson:"isShared"`
	SharedWith     []Share           `json:"sharedWith" bson:"sharedWith"`
	Status         string            `json:"status" bson:"status"`
	CreatedAt      time.Time         `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt" bson:"updatedAt"`
	DeletedAt      *time.Time        `json:"-" bson:"deletedAt,omitempty"`

	// Version increments on every successful update and guards against lost writes.
	Version int64 `json:"-" bson:"version"`
}

// IsOwner reports whether userID created the analysis.
func (a Analysis) IsOwner(userID string) bool {
	return userID != "" && a.UserID == userID
}

// SharedWithUser reports whether the analysis was explicitly shared with userID.
func (a Analysis) SharedWithUser(userID string) bool {
	if userID == "" {
		return false
	}
	for _, s := range a.SharedWith {
		if s.UserID == userID {
			return true
		}
	}
	return false
}

// CanView covers the owner, explicit shares and publicly shared analyses.
func (a Analysis) CanView(userID string) bool {
	return a.IsOwner(userID) || a.SharedWithUser(userID) || a.IsShared
}

// Page is a slice of analyses with the total count for the owner.
type Page struct {
	Items []Analysis
	Page  int
	Limit int
	Total int
}

// Pages is the number of pages needed to hold Total items.
func (p Page) Pages() int {
	if p.Limit <= 0 {
		return 0
	}
	return (p.Total + p.Limit - 1) / p.Limit
}
