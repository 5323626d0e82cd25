package soilanalyses

import (
	"math"

	"agri-backend/internal/soil"
)

// RequiredParameters must be present on every analysis request.
var RequiredParameters = []soil.Parameter{soil.PH, soil.Moisture, soil.Nitrogen}

type bounds struct{ min, max float64 }

// Stored readings are held to the ranges the laboratory forms accept. The
// stateless analyze endpoint does not apply them.
var storedRanges = map[soil.Parameter]bounds{
	soil.PH:         {0, 14},
	soil.Moisture:   {0, 100},
	soil.Nitrogen:   {0, 100},
	soil.Phosphorus: {0, 100},
	soil.Potassium:  {0, 100},
}

// ValidateParameters rejects missing mandatory readings and non-numeric
// values. prefix is prepended to reported field names.
func ValidateParameters(prefix string, set soil.ParameterSet) error {
	v := &ValidationError{}
	checkParameters(prefix, set, v)
	return v.err()
}

func checkParameters(prefix string, set soil.ParameterSet, v *ValidationError) {
	malformed := make(map[soil.Parameter]bool)
	for _, p := range set.Malformed() {
		malformed[p] = true
		v.add(prefix+string(p), "must be a number")
	}
	for _, p := range RequiredParameters {
		if malformed[p] {
			continue
		}
		if r, ok := set[string(p)]; !ok || !r.Present() {
			v.add(prefix+string(p), "is required")
		}
	}
}

func checkStoredRanges(prefix string, set soil.ParameterSet, v *ValidationError) {
	for _, p := range soil.Known {
		b, ok := storedRanges[p]
		if !ok {
			continue
		}
		r, ok := set[string(p)]
		if !ok || !r.Present() {
			continue
		}
		if x := *r.Value; x < b.min || x > b.max {
			v.add(prefix+string(p), "out of range")
		}
	}
}

func checkLocation(loc *Location, v *ValidationError) {
	if loc == nil {
		v.add("location", "is required")
		return
	}
	if len(loc.Coordinates) != 2 {
		v.add("location.coordinates", "must be [longitude, latitude]")
		return
	}
	lon, lat := loc.Coordinates[0], loc.Coordinates[1]
	if math.IsNaN(lon) || lon < -180 || lon > 180 {
		v.add("location.coordinates", "longitude out of range")
	}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		v.add("location.coordinates", "latitude out of range")
	}
}

func validTestMethod(m string) bool {
	switch m {
	case TestMethodManual, TestMethodSensor, TestMethodLaboratory, TestMethodAIEstimation:
		return true
	}
	return false
}

func validStatus(s string) bool {
	switch s {
	case StatusPending, StatusCompleted, StatusRequiresReview:
		return true
	}
	return false
}

func validShareRole(r string) bool {
	return r == ShareRoleView || r == ShareRoleEdit
}

func validImageType(t string) bool {
	switch t {
	case ImageSoilSample, ImageFieldPhoto, ImageTestResult:
		return true
	}
	return false
}
