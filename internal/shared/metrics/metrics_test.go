package metrics

import (
	"strings"
	"testing"
)

func TestRenderIncludesSoilCounters(t *testing.T) {
	IncSoilComputed("poor")
	IncSoilComputed("poor")
	IncSoilPersisted()
	ObserveSoilDurationMs(0.3)

	out := Render()
	for _, want := range []string{
		"# TYPE soil_analysis_computed_total counter",
		"soil_analysis_persisted_total",
		`soil_health_total{label="poor"}`,
		`soil_analysis_duration_ms_bucket{le="0.5"}`,
		`soil_analysis_duration_ms_bucket{le="+Inf"}`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestHistogramIsCumulative(t *testing.T) {
	h := newHistogram([]float64{1, 10})
	h.Observe(0.5)
	h.Observe(5)
	h.Observe(50)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected count 3, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 2 {
		t.Fatalf("unexpected bucket counts: %v", snap.counts)
	}
}
