package trainer

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/haskel/drainfox/internal/regress"
	"github.com/haskel/drainfox/internal/retention"
	"github.com/haskel/drainfox/internal/telemetry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testTrainer() *Trainer {
	cfg := regress.DefaultConfig()
	cfg.Trees = 25
	cfg.Seed = 1
	return New(cfg, testLogger())
}

// drainingRecord returns a record on the net-flow branch with the given
// outlet flow (L/s) and capacity (m³).
func drainingRecord(outlet, capacity float64) telemetry.Record {
	return telemetry.Record{
		InletFlow:    10,
		OutletFlow:   outlet,
		Capacity:     capacity,
		LevelM:       5,
		RatePercent:  -5,
		RateMPH:      -0.5,
		SurfaceArea:  1000,
		LevelPercent: 50,
	}
}

// undefinedRecord is net filling with a zero percent rate, so its label
// is undefined.
func undefinedRecord() telemetry.Record {
	rec := drainingRecord(5, 1000)
	rec.RatePercent = 0
	return rec
}

func trainingSet(n int) []telemetry.Record {
	records := make([]telemetry.Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, drainingRecord(20+float64(i)*5, 1000+float64(i)*500))
	}
	return records
}

func TestTrainer_Fit(t *testing.T) {
	predictor, err := testTrainer().Fit(trainingSet(20))
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	if predictor.Model() != "forest" {
		t.Errorf("expected forest model, got %q", predictor.Model())
	}
}

func TestTrainer_FitTooFewRecords(t *testing.T) {
	tests := []struct {
		name    string
		records []telemetry.Record
		have    int
	}{
		{"empty", nil, 0},
		{"single record", trainingSet(1), 1},
		{"all undefined", []telemetry.Record{undefinedRecord(), undefinedRecord(), undefinedRecord()}, 0},
		{"one defined after filtering", []telemetry.Record{drainingRecord(20, 1000), undefinedRecord()}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testTrainer().Fit(tt.records)
			if err == nil {
				t.Fatal("expected InsufficientDataError")
			}

			var insuff *InsufficientDataError
			if !errors.As(err, &insuff) {
				t.Fatalf("expected *InsufficientDataError, got %T: %v", err, err)
			}
			if insuff.Have != tt.have {
				t.Errorf("expected Have=%d, got %d", tt.have, insuff.Have)
			}
		})
	}
}

func TestTrainer_FitSkipsUndefinedRecords(t *testing.T) {
	records := trainingSet(10)
	records = append(records, undefinedRecord(), undefinedRecord())

	predictor, err := testTrainer().Fit(records)
	if err != nil {
		t.Fatalf("fit failed despite 10 usable records: %v", err)
	}
	if predictor == nil {
		t.Fatal("expected predictor")
	}
}

func TestTrainer_FitRejectsInvalidRecord(t *testing.T) {
	records := trainingSet(5)
	records[2].Capacity = math.NaN()

	_, err := testTrainer().Fit(records)
	if err == nil {
		t.Fatal("expected schema error")
	}

	var schema *SchemaMismatchError
	if !errors.As(err, &schema) {
		t.Fatalf("expected *SchemaMismatchError, got %T: %v", err, err)
	}
	if schema.Field != "capacity" {
		t.Errorf("expected field capacity, got %q", schema.Field)
	}
}

func TestPredictor_PredictBetweenTrainingLabels(t *testing.T) {
	// Tree-ensemble predictions are means of training labels, so a fit
	// on two distinct records must predict inside their label range.
	recA := drainingRecord(20, 1000)
	recB := drainingRecord(110, 36000)

	labelA, err := retention.Estimate(recA)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	labelB, err := retention.Estimate(recB)
	if err != nil {
		t.Fatalf("estimate failed: %v", err)
	}
	lo, hi := labelA.Hours, labelB.Hours
	if lo > hi {
		lo, hi = hi, lo
	}

	predictor, err := testTrainer().Fit([]telemetry.Record{recA, recB})
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	probe := drainingRecord(60, 12000)
	pred, err := predictor.Predict(probe)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}

	if pred < lo-1e-9 || pred > hi+1e-9 {
		t.Errorf("prediction %.4f outside training label range [%.4f, %.4f]", pred, lo, hi)
	}
}

func TestPredictor_PredictRejectsInvalidRecord(t *testing.T) {
	predictor, err := testTrainer().Fit(trainingSet(10))
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	bad := drainingRecord(50, 2000)
	bad.SurfaceArea = math.Inf(1)

	_, err = predictor.Predict(bad)
	if err == nil {
		t.Fatal("expected schema error")
	}
	var schema *SchemaMismatchError
	if !errors.As(err, &schema) {
		t.Fatalf("expected *SchemaMismatchError, got %T", err)
	}
}

func TestTrainer_FitDeterministicWithSeed(t *testing.T) {
	records := trainingSet(15)

	p1, err := testTrainer().Fit(records)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}
	p2, err := testTrainer().Fit(records)
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	probe := drainingRecord(42, 4200)
	v1, err := p1.Predict(probe)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	v2, err := p2.Predict(probe)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}

	if v1 != v2 {
		t.Errorf("same seed produced different predictions: %.8f vs %.8f", v1, v2)
	}
}

func TestPredictor_SaveLoadRoundTrip(t *testing.T) {
	predictor, err := testTrainer().Fit(trainingSet(12))
	if err != nil {
		t.Fatalf("fit failed: %v", err)
	}

	var buf bytes.Buffer
	if err := predictor.Save(&buf); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	restored, err := Load(&buf)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if restored.Model() != predictor.Model() {
		t.Errorf("restored model type %q, expected %q", restored.Model(), predictor.Model())
	}

	probe := drainingRecord(35, 3000)
	orig, err := predictor.Predict(probe)
	if err != nil {
		t.Fatalf("predict failed: %v", err)
	}
	got, err := restored.Predict(probe)
	if err != nil {
		t.Fatalf("predict after load failed: %v", err)
	}
	if orig != got {
		t.Errorf("restored predictor returns %.8f, original %.8f", got, orig)
	}
}

func TestLoad_RejectsUnknownModel(t *testing.T) {
	_, err := Load(bytes.NewReader([]byte(`{"model":"perceptron","state":{}}`)))
	if err == nil {
		t.Error("expected error for unknown model type")
	}
}
