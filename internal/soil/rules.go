package soil

// band is the outcome of a reading falling into one interval of a rule.
type band struct {
	status Status
	points int
	advice *Recommendation
}

// rule scores one parameter against an inclusive optimal interval [min, max].
type rule struct {
	param   Parameter
	min     float64
	max     float64
	below   band
	optimal band
	above   band
}

// classify picks the band for v. Values below min are "low", above max "high".
func (r rule) classify(v float64) band {
	switch {
	case v < r.min:
		return r.below
	case v > r.max:
		return r.above
	default:
		return r.optimal
	}
}

// maxSubScore is the most points a single parameter can contribute.
const maxSubScore = 20

// rules are evaluated in this order; recommendations follow it.
var rules = []rule{
	{
		param: PH,
		min:   6.0,
		max:   7.5,
		below: band{status: StatusLow, points: 10, advice: &Recommendation{
			Kind:        KindAmendment,
			Priority:    PriorityHigh,
			Title:       "Soil is Acidic",
			Description: "Add lime to increase pH. Apply 200-500 kg/hectare of agricultural lime.",
			Quantity:    "200-500 kg/hectare",
			Timing:      "Before planting season",
		}},
		optimal: band{status: StatusOptimal, points: maxSubScore, advice: &Recommendation{
			Kind:        KindPractice,
			Priority:    PriorityLow,
			Title:       "pH Level Optimal",
			Description: "Your soil pH is in the optimal range for most crops.",
		}},
		above: band{status: StatusHigh, points: 10, advice: &Recommendation{
			Kind:        KindAmendment,
			Priority:    PriorityMedium,
			Title:       "Soil is Alkaline",
			Description: "Add organic matter or sulfur to reduce pH.",
			Quantity:    "100-200 kg/hectare sulfur",
			Timing:      "2-3 months before planting",
		}},
	},
	{
		param: Nitrogen,
		min:   40,
		max:   80,
		below: band{status: StatusLow, points: 8, advice: &Recommendation{
			Kind:        KindFertilizer,
			Priority:    PriorityHigh,
			Title:       "Nitrogen Deficiency",
			Description: "Apply nitrogen-rich fertilizer like Urea.",
			Quantity:    "120-150 kg/hectare",
			Timing:      "Split application during crop growth",
		}},
		optimal: band{status: StatusOptimal, points: maxSubScore},
		above: band{status: StatusHigh, points: 12, advice: &Recommendation{
			Kind:        KindPractice,
			Priority:    PriorityMedium,
			Title:       "Excess Nitrogen",
			Description: "Reduce nitrogen fertilizer application to prevent crop lodging.",
		}},
	},
	{
		param: Phosphorus,
		min:   25,
		max:   70,
		below: band{status: StatusLow, points: 8, advice: &Recommendation{
			Kind:        KindFertilizer,
			Priority:    PriorityHigh,
			Title:       "Phosphorus Deficiency",
			Description: "Apply DAP (Diammonium Phosphate) fertilizer.",
			Quantity:    "100-125 kg/hectare",
			Timing:      "At the time of planting",
		}},
		optimal: band{status: StatusOptimal, points: maxSubScore},
		above:   band{status: StatusHigh, points: maxSubScore},
	},
	{
		param: Potassium,
		min:   30,
		max:   75,
		below: band{status: StatusLow, points: 8, advice: &Recommendation{
			Kind:        KindFertilizer,
			Priority:    PriorityHigh,
			Title:       "Potassium Deficiency",
			Description: "Apply MOP (Muriate of Potash) fertilizer.",
			Quantity:    "50-75 kg/hectare",
			Timing:      "During flowering stage",
		}},
		optimal: band{status: StatusOptimal, points: maxSubScore},
		above:   band{status: StatusHigh, points: maxSubScore},
	},
	{
		param: Moisture,
		min:   40,
		max:   70,
		below: band{status: StatusLow, points: 10, advice: &Recommendation{
			Kind:        KindIrrigation,
			Priority:    PriorityHigh,
			Title:       "Low Soil Moisture",
			Description: "Increase irrigation frequency. Consider drip irrigation for water efficiency.",
		}},
		optimal: band{status: StatusOptimal, points: maxSubScore},
		above: band{status: StatusHigh, points: 12, advice: &Recommendation{
			Kind:        KindIrrigation,
			Priority:    PriorityMedium,
			Title:       "Excess Moisture",
			Description: "Improve drainage. Create furrows or install drainage tiles.",
		}},
	},
}
