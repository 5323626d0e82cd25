// Package soil scores measured soil parameters and produces fertilizer,
// amendment, irrigation and crop advice. Every function is pure and safe for
// concurrent use.
package soil

// Analyze normalizes the caller's readings and returns a fresh advisory result.
func Analyze(set ParameterSet) Result {
	return AnalyzeValues(Normalize(set))
}

// AnalyzeValues scores already-normalized values.
func AnalyzeValues(values Values) Result {
	score := ScoreValues(values)
	overall := score.Overall()
	return Result{
		OverallScore:    overall,
		SoilHealth:      HealthFor(overall),
		Recommendations: score.Recommendations,
		SuitableCrops:   SuitableCrops(values),
	}
}
