package retention

import (
	"errors"
	"math"
	"testing"

	"github.com/haskel/drainfox/internal/telemetry"
)

func baseRecord() telemetry.Record {
	return telemetry.Record{
		InletFlow:    20,
		OutletFlow:   80,
		Capacity:     36000,
		LevelM:       5,
		RatePercent:  -5,
		RateMPH:      -0.5,
		SurfaceArea:  1000,
		LevelPercent: 50,
	}
}

func TestEstimate_NetFlowBranch(t *testing.T) {
	// inlet 20 L/s = 0.02 m³/s, outlet 80 L/s = 0.08 m³/s,
	// net = 0.06 m³/s, 36000 / 0.06 / 3600 = 166.667 h
	res, err := Estimate(baseRecord())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Branch != BranchNetFlow {
		t.Errorf("expected net flow branch, got %s", res.Branch)
	}

	expected := 36000.0 / 0.06 / 3600.0
	if math.Abs(res.Hours-expected) > 1e-9 {
		t.Errorf("expected %.6f hours, got %.6f", expected, res.Hours)
	}
	if math.Abs(res.Hours-166.6666667) > 1e-6 {
		t.Errorf("expected ~166.667 hours, got %.6f", res.Hours)
	}
}

func TestEstimate_RateFallbackBranch(t *testing.T) {
	// outlet 10 L/s < inlet 20 L/s: net filling, fall back to
	// 50 / |-5| = 10 h.
	rec := baseRecord()
	rec.OutletFlow = 10

	res, err := Estimate(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Branch != BranchRateFallback {
		t.Errorf("expected rate fallback branch, got %s", res.Branch)
	}
	if math.Abs(res.Hours-10) > 1e-12 {
		t.Errorf("expected 10 hours, got %.6f", res.Hours)
	}
}

func TestEstimate_ZeroNetFlowRoutesToFallback(t *testing.T) {
	// Equal inlet and outlet: net flow is exactly zero, must never take
	// the volumetric branch.
	rec := baseRecord()
	rec.InletFlow = 40
	rec.OutletFlow = 40

	res, err := Estimate(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Branch != BranchRateFallback {
		t.Errorf("zero net flow must use the fallback branch, got %s", res.Branch)
	}
	if math.Abs(res.Hours-10) > 1e-12 {
		t.Errorf("expected 10 hours, got %.6f", res.Hours)
	}
}

func TestEstimate_ZeroRateUndefined(t *testing.T) {
	rec := baseRecord()
	rec.OutletFlow = 10 // net filling, fallback branch
	rec.RatePercent = 0

	_, err := Estimate(rec)
	if err == nil {
		t.Fatal("expected undefined retention error")
	}

	var undef *UndefinedError
	if !errors.As(err, &undef) {
		t.Fatalf("expected *UndefinedError, got %T", err)
	}
	if !errors.Is(err, ErrUndefined) {
		t.Error("error must unwrap to ErrUndefined")
	}
}

func TestEstimate_PositiveRateFallback(t *testing.T) {
	// rate_percent sign is ignored in the fallback: abs value is used.
	rec := baseRecord()
	rec.OutletFlow = 10
	rec.RatePercent = 5

	res, err := Estimate(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(res.Hours-10) > 1e-12 {
		t.Errorf("expected 10 hours, got %.6f", res.Hours)
	}
}

func TestEstimate_NetFlowFormula(t *testing.T) {
	tests := []struct {
		name     string
		inlet    float64
		outlet   float64
		capacity float64
		expected float64
	}{
		{"small tank", 0, 1, 360, 360.0 / 0.001 / 3600},
		{"balanced high flows", 500, 600, 7200, 7200.0 / 0.1 / 3600},
		{"reservoir", 100, 350, 1e6, 1e6 / 0.25 / 3600},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			rec.InletFlow = tt.inlet
			rec.OutletFlow = tt.outlet
			rec.Capacity = tt.capacity

			res, err := Estimate(rec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Branch != BranchNetFlow {
				t.Fatalf("expected net flow branch, got %s", res.Branch)
			}
			if math.Abs(res.Hours-tt.expected) > 1e-9*tt.expected {
				t.Errorf("expected %.6f hours, got %.6f", tt.expected, res.Hours)
			}
		})
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	rec := baseRecord()

	first, err := Estimate(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 10; i++ {
		res, err := Estimate(rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res != first {
			t.Fatalf("estimate is not deterministic: %+v vs %+v", first, res)
		}
	}
}

func TestEstimate_UnusedFieldsIgnored(t *testing.T) {
	// rate_mph and surface_area are carried for the model but must not
	// affect the formula.
	rec := baseRecord()
	res1, err := Estimate(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rec.RateMPH = 123.45
	rec.SurfaceArea = 0.001
	res2, err := Estimate(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res1 != res2 {
		t.Errorf("rate_mph/surface_area changed the estimate: %+v vs %+v", res1, res2)
	}
}
