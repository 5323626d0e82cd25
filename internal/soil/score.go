package soil

import "math"

// Score is the outcome of running the band rules over a set of values.
type Score struct {
	Total           int
	Count           int
	Statuses        map[Parameter]Status
	Recommendations []Recommendation
}

// ScoreValues applies every band rule to the present values. Absent
// parameters are skipped and do not count towards the mean.
func ScoreValues(values Values) Score {
	s := Score{
		Statuses:        make(map[Parameter]Status, len(rules)),
		Recommendations: make([]Recommendation, 0, len(rules)),
	}
	for _, r := range rules {
		v, ok := values.Get(r.param)
		if !ok {
			continue
		}
		b := r.classify(v)
		s.Count++
		s.Total += b.points
		s.Statuses[r.param] = b.status
		if b.advice != nil {
			s.Recommendations = append(s.Recommendations, *b.advice)
		}
	}
	return s
}

// Overall is the rounded mean sub-score, or 0 when nothing was scored.
//
// Each sub-score is capped at 20, so the mean never exceeds 20 and the
// "excellent"/"good"/"fair" labels are unreachable. Existing clients depend
// on this arithmetic, so it is kept as is.
func (s Score) Overall() int {
	if s.Count == 0 {
		return 0
	}
	return int(math.Round(float64(s.Total) / float64(s.Count)))
}

// HealthFor maps an overall score onto its soil-health label.
func HealthFor(score int) Health {
	switch {
	case score >= 80:
		return HealthExcellent
	case score >= 60:
		return HealthGood
	case score >= 40:
		return HealthFair
	default:
		return HealthPoor
	}
}

// Classify returns the band status of every present scorable parameter.
// Temperature is never classified.
func Classify(values Values) map[Parameter]Status {
	return ScoreValues(values).Statuses
}
