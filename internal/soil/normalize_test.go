package soil

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNormalizeMixedShapes(t *testing.T) {
	raw := `{
		"ph": 6.5,
		"moisture": {"value": 45, "status": "optimal"},
		"nitrogen": null,
		"phosphorus": "abc",
		"potassium": {"value": "x"},
		"temperature": {"unit": "celsius"},
		"salinity": 2
	}`
	var in ParameterSet
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := Normalize(in)
	want := Values{PH: 6.5, Moisture: 45}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Normalize (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]Parameter{Phosphorus, Potassium}, in.Malformed()); diff != "" {
		t.Fatalf("Malformed (-want +got):\n%s", diff)
	}
	if in["moisture"].Status != StatusOptimal {
		t.Fatalf("expected wrapped status to be kept, got %q", in["moisture"].Status)
	}
}

func TestNormalizeDropsNonFinite(t *testing.T) {
	in := ParameterSet{
		"ph":       Number(math.NaN()),
		"nitrogen": Number(math.Inf(1)),
		"moisture": Number(55),
	}
	got := Normalize(in)
	if diff := cmp.Diff(Values{Moisture: 55}, got); diff != "" {
		t.Fatalf("Normalize (-want +got):\n%s", diff)
	}
}

func TestNormalizeKeepsOutOfRange(t *testing.T) {
	got := Normalize(ParameterSet{"ph": Number(19), "moisture": Number(-4)})
	if got[PH] != 19 || got[Moisture] != -4 {
		t.Fatalf("expected values to pass through unchanged, got %v", got)
	}
}

func TestReadingRoundTripsWrappedShape(t *testing.T) {
	r := Reading{Value: ptr(7.1), Status: StatusOptimal, Unit: "pH"}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Reading
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Present() || *back.Value != 7.1 || back.Status != StatusOptimal || back.Unit != "pH" {
		t.Fatalf("unexpected reading: %#v", back)
	}
}

func ptr(v float64) *float64 { return &v }
