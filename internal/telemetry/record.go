package telemetry

import (
	"fmt"
	"math"
)

// Record is one tank telemetry observation.
// Flows are in L/s, capacity in m³, level in meters, rates are signed
// (negative = draining), surface area in m².
type Record struct {
	InletFlow    float64 `json:"inlet_flow" yaml:"inlet_flow"`
	OutletFlow   float64 `json:"outlet_flow" yaml:"outlet_flow"`
	Capacity     float64 `json:"capacity" yaml:"capacity"`
	LevelM       float64 `json:"current_level_m" yaml:"current_level_m"`
	RatePercent  float64 `json:"rate_percent" yaml:"rate_percent"`
	RateMPH      float64 `json:"rate_mph" yaml:"rate_mph"`
	SurfaceArea  float64 `json:"surface_area" yaml:"surface_area"`
	LevelPercent float64 `json:"current_level_percent" yaml:"current_level_percent"`
}

// FeatureNames is the fixed feature ordering used for training and
// prediction. Changing the order invalidates persisted models.
var FeatureNames = []string{
	"inlet_flow",
	"outlet_flow",
	"capacity",
	"current_level_m",
	"rate_percent",
	"rate_mph",
	"surface_area",
	"current_level_percent",
}

// NumFeatures is the length of a feature vector.
const NumFeatures = 8

// Features returns the record as a feature vector in FeatureNames order.
func (r Record) Features() []float64 {
	return []float64{
		r.InletFlow,
		r.OutletFlow,
		r.Capacity,
		r.LevelM,
		r.RatePercent,
		r.RateMPH,
		r.SurfaceArea,
		r.LevelPercent,
	}
}

// FieldError reports an unusable telemetry field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("telemetry field %q: %s", e.Field, e.Reason)
}

// Validate checks the record invariants: every field finite and
// capacity strictly positive. Level percent is expected in [0,100]
// but is deliberately not clamped here.
func (r Record) Validate() error {
	vals := r.Features()
	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &FieldError{Field: FeatureNames[i], Reason: "must be finite"}
		}
	}
	if r.Capacity <= 0 {
		return &FieldError{Field: "capacity", Reason: "must be positive"}
	}
	return nil
}

// FromMap builds a Record from named fields. Every feature name must be
// present; extra keys are ignored.
func FromMap(fields map[string]float64) (Record, error) {
	for _, name := range FeatureNames {
		if _, ok := fields[name]; !ok {
			return Record{}, &FieldError{Field: name, Reason: "missing"}
		}
	}
	return Record{
		InletFlow:    fields["inlet_flow"],
		OutletFlow:   fields["outlet_flow"],
		Capacity:     fields["capacity"],
		LevelM:       fields["current_level_m"],
		RatePercent:  fields["rate_percent"],
		RateMPH:      fields["rate_mph"],
		SurfaceArea:  fields["surface_area"],
		LevelPercent: fields["current_level_percent"],
	}, nil
}
