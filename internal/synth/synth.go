// Package synth generates plausible tank telemetry for demonstrations
// and model training when no live data is available. It is a
// collaborator of the training pipeline, never a dependency of it.
package synth

import (
	"math/rand"

	"github.com/haskel/drainfox/internal/telemetry"
)

// Config holds generation parameters.
type Config struct {
	// Count is the number of records to generate.
	Count int
	// Seed makes generation reproducible.
	Seed int64
}

// DefaultConfig returns default generation parameters.
func DefaultConfig() Config {
	return Config{
		Count: 500,
		Seed:  1,
	}
}

// Operating ranges for generated telemetry.
const (
	maxFlowLPS     = 150.0 // inlet/outlet, L/s
	minCapacityM3  = 500.0
	maxCapacityM3  = 50000.0
	maxLevelM      = 12.0
	maxRatePercent = 10.0 // signed, percent/hour
	maxRateMPH     = 1.0  // signed, m/hour
	minAreaM2      = 50.0
	maxAreaM2      = 5000.0
)

// Generate produces Count telemetry records. The same seed always
// yields the same dataset, in the same order.
func Generate(cfg Config) telemetry.Dataset {
	if cfg.Count < 0 {
		cfg.Count = 0
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	ds := make(telemetry.Dataset, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		ds = append(ds, telemetry.Record{
			InletFlow:    rng.Float64() * maxFlowLPS,
			OutletFlow:   rng.Float64() * maxFlowLPS,
			Capacity:     minCapacityM3 + rng.Float64()*(maxCapacityM3-minCapacityM3),
			LevelM:       rng.Float64() * maxLevelM,
			RatePercent:  (rng.Float64()*2 - 1) * maxRatePercent,
			RateMPH:      (rng.Float64()*2 - 1) * maxRateMPH,
			SurfaceArea:  minAreaM2 + rng.Float64()*(maxAreaM2-minAreaM2),
			LevelPercent: rng.Float64() * 100,
		})
	}
	return ds
}
