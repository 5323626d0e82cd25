package soil

import (
	"bytes"
	"encoding/json"
	"math"
)

// Reading is a single measurement as supplied by a caller. It decodes from
// either a bare JSON number or an object carrying a numeric "value".
type Reading struct {
	Value  *float64 `json:"value,omitempty" bson:"value,omitempty"`
	Status Status   `json:"status,omitempty" bson:"status,omitempty"`
	Unit   string   `json:"unit,omitempty" bson:"unit,omitempty"`

	// malformed is set when the raw input was present but not numeric.
	malformed bool
}

// Number builds a Reading from a bare value.
func Number(v float64) Reading {
	return Reading{Value: &v}
}

// Present reports whether the reading carries a usable number.
func (r Reading) Present() bool {
	return r.Value != nil && !math.IsNaN(*r.Value) && !math.IsInf(*r.Value, 0)
}

// Malformed reports whether the raw input was supplied but could not be read as a number.
func (r Reading) Malformed() bool {
	return r.malformed
}

// UnmarshalJSON never fails; unreadable input is recorded as malformed.
func (r *Reading) UnmarshalJSON(data []byte) error {
	*r = Reading{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(trimmed, &n); err == nil {
		r.Value = &n
		return nil
	}

	var wrapped struct {
		Value  json.RawMessage `json:"value"`
		Status Status          `json:"status"`
		Unit   string          `json:"unit"`
	}
	if err := json.Unmarshal(trimmed, &wrapped); err != nil {
		r.malformed = true
		return nil
	}
	r.Status = wrapped.Status
	r.Unit = wrapped.Unit
	raw := bytes.TrimSpace(wrapped.Value)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, &n); err != nil {
		r.malformed = true
		return nil
	}
	r.Value = &n
	return nil
}

// ParameterSet maps parameter names to caller readings. Unknown keys are ignored.
type ParameterSet map[string]Reading

// Malformed returns the recognised parameters whose readings were supplied but not numeric.
func (s ParameterSet) Malformed() []Parameter {
	var out []Parameter
	for _, p := range Known {
		if r, ok := s[string(p)]; ok && r.Malformed() {
			out = append(out, p)
		}
	}
	return out
}

// Values is the flattened parameter → number mapping the engine scores.
type Values map[Parameter]float64

// Get returns the value for p and whether it is present.
func (v Values) Get(p Parameter) (float64, bool) {
	x, ok := v[p]
	return x, ok
}

// Normalize drops absent, null, malformed and non-finite readings and returns
// the remaining recognised parameters as plain numbers. Ranges are not checked.
func Normalize(set ParameterSet) Values {
	out := make(Values, len(Known))
	for _, p := range Known {
		r, ok := set[string(p)]
		if !ok || !r.Present() {
			continue
		}
		out[p] = *r.Value
	}
	return out
}
