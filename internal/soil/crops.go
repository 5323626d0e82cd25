package soil

type cropRule struct {
	match func(Values) bool
	crops []SuitableCrop
}

var cropRules = []cropRule{
	{
		match: func(v Values) bool {
			return within(v, PH, 6.0, 7.5) && atLeast(v, Nitrogen, 40) && atLeast(v, Moisture, 40)
		},
		crops: []SuitableCrop{
			{Name: "Rice", SuitabilityScore: 85, Season: "Kharif"},
			{Name: "Wheat", SuitabilityScore: 80, Season: "Rabi"},
			{Name: "Maize", SuitabilityScore: 75, Season: "Kharif/Rabi"},
		},
	},
	{
		match: func(v Values) bool {
			return within(v, PH, 6.5, 8.0)
		},
		crops: []SuitableCrop{
			{Name: "Legumes", SuitabilityScore: 70, Season: "Rabi"},
			{Name: "Oilseeds", SuitabilityScore: 65, Season: "Rabi"},
			{Name: "Vegetables", SuitabilityScore: 75, Season: "All seasons"},
		},
	},
}

var fallbackCrops = []SuitableCrop{
	{Name: "Mixed crops", SuitabilityScore: 50, Season: "Based on local conditions"},
	{Name: "Fodder crops", SuitabilityScore: 60, Season: "All seasons"},
}

// SuitableCrops walks the crop table top-down and returns a copy of the first
// matching list. A missing parameter fails any predicate that reads it.
func SuitableCrops(values Values) []SuitableCrop {
	for _, r := range cropRules {
		if r.match(values) {
			return append([]SuitableCrop(nil), r.crops...)
		}
	}
	return append([]SuitableCrop(nil), fallbackCrops...)
}

func within(v Values, p Parameter, lo, hi float64) bool {
	x, ok := v.Get(p)
	return ok && x >= lo && x <= hi
}

func atLeast(v Values, p Parameter, lo float64) bool {
	x, ok := v.Get(p)
	return ok && x >= lo
}
