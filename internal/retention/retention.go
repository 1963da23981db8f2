// Package retention computes how long the liquid held in a tank is
// expected to remain before the tank empties, given one telemetry record.
package retention

import (
	"errors"
	"fmt"
	"math"

	"github.com/haskel/drainfox/internal/telemetry"
)

// Branch identifies which formula produced an estimate.
type Branch string

const (
	// BranchNetFlow - exact volumetric model: time to empty the tank's
	// capacity at the current net outflow rate.
	BranchNetFlow Branch = "net_flow"
	// BranchRateFallback - percentage-rate approximation used when the
	// tank is net filling or in equilibrium.
	BranchRateFallback Branch = "rate_fallback"
)

func (b Branch) String() string {
	return string(b)
}

// Result is a retention estimate together with the branch that produced
// it, so the branch taken is observable by callers and tests.
type Result struct {
	Hours  float64 `json:"hours"`
	Branch Branch  `json:"branch"`
}

// ErrUndefined is the sentinel for retention times that cannot be
// computed from the given telemetry.
var ErrUndefined = errors.New("retention time undefined")

// UndefinedError reports why no branch could produce a finite value.
type UndefinedError struct {
	Reason string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("retention time undefined: %s", e.Reason)
}

func (e *UndefinedError) Unwrap() error {
	return ErrUndefined
}

const (
	// Inlet/outlet flows arrive in L/s; capacity is m³.
	litersToCubicMeters = 0.001
	secondsPerHour      = 3600
)

// Estimate converts one telemetry record into a retention time in hours.
// Pure and deterministic.
//
// Two branches, in priority order:
//  1. net flow strictly positive (tank draining): capacity / net flow,
//     converted from seconds to hours.
//  2. otherwise fall back to the level rate: level percent / |rate
//     percent|. A zero rate here means the estimate is undefined.
//
// A net flow of exactly zero routes to the fallback, never to branch 1.
func Estimate(rec telemetry.Record) (Result, error) {
	inlet := rec.InletFlow * litersToCubicMeters
	outlet := rec.OutletFlow * litersToCubicMeters
	net := outlet - inlet

	if net > 0 {
		hours := rec.Capacity / net / secondsPerHour
		if math.IsNaN(hours) || math.IsInf(hours, 0) {
			return Result{}, &UndefinedError{Reason: "net flow branch produced a non-finite value"}
		}
		return Result{Hours: hours, Branch: BranchNetFlow}, nil
	}

	if rec.RatePercent == 0 {
		return Result{}, &UndefinedError{Reason: "tank is not net draining and rate_percent is zero"}
	}

	hours := rec.LevelPercent / math.Abs(rec.RatePercent)
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return Result{}, &UndefinedError{Reason: "rate fallback branch produced a non-finite value"}
	}
	return Result{Hours: hours, Branch: BranchRateFallback}, nil
}
