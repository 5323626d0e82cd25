package soil

// Parameter names a soil measurement.
type Parameter string

const (
	PH          Parameter = "ph"
	Moisture    Parameter = "moisture"
	Nitrogen    Parameter = "nitrogen"
	Phosphorus  Parameter = "phosphorus"
	Potassium   Parameter = "potassium"
	Temperature Parameter = "temperature"
)

// Known lists the recognised parameters. Temperature is informational only.
var Known = []Parameter{PH, Moisture, Nitrogen, Phosphorus, Potassium, Temperature}

// Status is the band a reading falls into.
type Status string

const (
	StatusLow     Status = "low"
	StatusOptimal Status = "optimal"
	StatusHigh    Status = "high"
)

// Kind classifies a recommendation.
type Kind string

const (
	KindFertilizer Kind = "fertilizer"
	KindAmendment  Kind = "amendment"
	KindIrrigation Kind = "irrigation"
	KindPractice   Kind = "practice"
)

// Priority ranks a recommendation.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Health is the categorical soil-health label.
type Health string

const (
	HealthPoor      Health = "poor"
	HealthFair      Health = "fair"
	HealthGood      Health = "good"
	HealthExcellent Health = "excellent"
)

// Recommendation is one advisory entry emitted by a band rule.
type Recommendation struct {
	Kind        Kind     `json:"type" bson:"type" yaml:"type"`
	Priority    Priority `json:"priority" bson:"priority" yaml:"priority"`
	Title       string   `json:"title" bson:"title" yaml:"title"`
	Description string   `json:"description" bson:"description" yaml:"description"`
	Quantity    string   `json:"quantity,omitempty" bson:"quantity,omitempty" yaml:"quantity,omitempty"`
	Timing      string   `json:"timing,omitempty" bson:"timing,omitempty" yaml:"timing,omitempty"`
}

// SuitableCrop is a crop/season pairing suggested by the selector.
type SuitableCrop struct {
	Name             string `json:"name" bson:"name" yaml:"name"`
	SuitabilityScore int    `json:"suitabilityScore" bson:"suitabilityScore" yaml:"suitabilityScore"`
	Season           string `json:"season" bson:"season" yaml:"season"`
}

// Result is the advisory produced for one parameter set.
type Result struct {
	OverallScore    int              `json:"overallScore" bson:"overallScore" yaml:"overallScore"`
	SoilHealth      Health           `json:"soilHealth" bson:"soilHealth" yaml:"soilHealth"`
	Recommendations []Recommendation `json:"recommendations" bson:"recommendations" yaml:"recommendations"`
	SuitableCrops   []SuitableCrop   `json:"suitableCrops" bson:"suitableCrops" yaml:"suitableCrops"`
}
