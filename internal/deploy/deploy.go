// Package deploy scores whether water tankers should be deployed to
// bridge a supply interruption, using a weighted composite of the
// interruption's customer impact, repair delay, and tanker economics.
package deploy

import (
	"fmt"
	"math"
	"sort"
)

// TankerType identifies a tanker class in the fleet catalogue.
type TankerType string

const (
	TankerArtic      TankerType = "artic"
	TankerRigid      TankerType = "rigid"
	TankerHookloader TankerType = "hookloader"
)

// TankerSpec describes one tanker class.
type TankerSpec struct {
	CapacityM3  float64 `json:"capacity_m3"`
	CostPerFill float64 `json:"cost_per_fill"` // GBP
}

// Fleet is the tanker catalogue.
var Fleet = map[TankerType]TankerSpec{
	TankerArtic:      {CapacityM3: 25, CostPerFill: 1000},
	TankerRigid:      {CapacityM3: 18, CostPerFill: 600},
	TankerHookloader: {CapacityM3: 13, CostPerFill: 400},
}

// Factor is one normalized scoring input.
type Factor string

const (
	FactorCMLImpact        Factor = "cml_impact"
	FactorMaintenanceDelay Factor = "maintenance_delay"
	FactorTankerResource   Factor = "tanker_resource"
	FactorAssetsAtRisk     Factor = "assets_at_risk"
	FactorCriticalCust     Factor = "critical_customers"
	FactorCostBenefit      Factor = "cost_benefit_ratio"
)

// Factors lists every scoring factor in a stable order.
var Factors = []Factor{
	FactorCMLImpact,
	FactorMaintenanceDelay,
	FactorTankerResource,
	FactorAssetsAtRisk,
	FactorCriticalCust,
	FactorCostBenefit,
}

// Range bounds a raw factor value before normalization.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Scoring holds the normalization ranges, factor weights, and the
// deploy/hold threshold.
type Scoring struct {
	Ranges    map[Factor]Range   `yaml:"ranges" json:"ranges"`
	Weights   map[Factor]float64 `yaml:"weights" json:"weights"`
	Threshold float64            `yaml:"threshold" json:"threshold"`
}

// DefaultScoring returns the operational defaults.
func DefaultScoring() Scoring {
	return Scoring{
		Ranges: map[Factor]Range{
			FactorCMLImpact:        {Min: 0, Max: 100000}, // GBP
			FactorMaintenanceDelay: {Min: 0, Max: 300},    // minutes
			FactorTankerResource:   {Min: 0, Max: 1},
			FactorAssetsAtRisk:     {Min: 0, Max: 1},
			FactorCriticalCust:     {Min: 0, Max: 1},
			FactorCostBenefit:      {Min: 0, Max: 100},
		},
		Weights: map[Factor]float64{
			FactorCMLImpact:        0.1,
			FactorMaintenanceDelay: 0.1,
			FactorTankerResource:   0.3,
			FactorAssetsAtRisk:     0.1,
			FactorCriticalCust:     0.1,
			FactorCostBenefit:      0.3,
		},
		Threshold: 0.7,
	}
}

// Validate checks the scoring configuration for completeness.
func (s Scoring) Validate() error {
	var sum float64
	for _, f := range Factors {
		r, ok := s.Ranges[f]
		if !ok {
			return fmt.Errorf("missing range for factor %q", f)
		}
		if r.Max < r.Min {
			return fmt.Errorf("factor %q: max %v below min %v", f, r.Max, r.Min)
		}
		w, ok := s.Weights[f]
		if !ok {
			return fmt.Errorf("missing weight for factor %q", f)
		}
		if w < 0 {
			return fmt.Errorf("factor %q: weight must be non-negative", f)
		}
		sum += w
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("factor weights must sum to 1, got %v", sum)
	}
	if s.Threshold < 0 || s.Threshold > 1 {
		return fmt.Errorf("threshold must be in [0,1], got %v", s.Threshold)
	}
	return nil
}

// Inputs describes one supply interruption.
type Inputs struct {
	// PropertiesAffected is the number of properties out of supply.
	PropertiesAffected int `json:"properties_affected"`
	// OutageHours is the expected duration out of supply.
	OutageHours float64 `json:"outage_hours"`
	// RepairDelayMinutes is the extra delay tankering adds to the repair.
	RepairDelayMinutes float64 `json:"repair_delay_minutes"`
	// NightFlowM3h and PeakFlowM3h bound the demand, m³/hour.
	NightFlowM3h float64 `json:"night_flow_m3h"`
	PeakFlowM3h  float64 `json:"peak_flow_m3h"`
	// Tankers is the available fleet by type.
	Tankers map[TankerType]int `json:"tankers"`
	// FillHours is the tanker fill turnaround time.
	FillHours float64 `json:"fill_hours"`

	AssetsAtRisk      bool `json:"assets_at_risk"`
	CriticalCustomers bool `json:"critical_customers"`
}

// Assessment is the scored recommendation with every intermediate
// calculation exposed for audit.
type Assessment struct {
	CMLCost        float64 `json:"cml_cost"`
	MeanFlow       float64 `json:"mean_flow_m3h"`
	DeliveredRate  float64 `json:"delivered_rate_m3h"`
	ResourceRatio  float64 `json:"resource_ratio"`
	DeploymentCost float64 `json:"deployment_cost"`
	CostBenefit    float64 `json:"cost_benefit_ratio"`

	Score     float64            `json:"score"`
	Breakdown map[Factor]float64 `json:"breakdown"`
	Deploy    bool               `json:"deploy"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// cmlCost is the regulatory customer-minutes-lost cost of an
// interruption, GBP.
func cmlCost(properties int, outageHours float64) float64 {
	return (((float64(properties) * outageHours * 60 * 24) / (60.0 / 1473786.0)) * 60) * 610000
}

// normalize maps value into [0,1] over the range, capping at the bounds.
func normalize(value float64, r Range) float64 {
	if r.Max == r.Min {
		return 0
	}
	f := (value - r.Min) / (r.Max - r.Min)
	return math.Max(0, math.Min(1, f))
}

// Evaluate computes the composite deployment score for one interruption.
func Evaluate(in Inputs, s Scoring) Assessment {
	a := Assessment{
		CMLCost:  cmlCost(in.PropertiesAffected, in.OutageHours),
		MeanFlow: (in.NightFlowM3h + in.PeakFlowM3h) / 2,
	}

	if in.FillHours > 0 && a.MeanFlow > 0 {
		// Sorted so the warning order is stable across runs.
		types := make([]TankerType, 0, len(in.Tankers))
		for t := range in.Tankers {
			types = append(types, t)
		}
		sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

		for _, t := range types {
			spec, ok := Fleet[t]
			if !ok {
				a.Warnings = append(a.Warnings, fmt.Sprintf("unknown tanker type %q ignored", t))
				continue
			}
			count := in.Tankers[t]
			a.DeliveredRate += (float64(count) * spec.CapacityM3) / in.FillHours
			a.DeploymentCost += float64(count) * spec.CostPerFill
		}
	}

	if a.MeanFlow > 0 {
		a.ResourceRatio = math.Min(a.DeliveredRate/a.MeanFlow, 1)
	} else {
		a.ResourceRatio = 1
	}

	if a.DeploymentCost > 0 {
		a.CostBenefit = a.CMLCost / a.DeploymentCost
	}

	if in.FillHours*60 > 30 {
		a.Warnings = append(a.Warnings, "fill time over 30 minutes may breach supply between cycles")
	}

	raw := map[Factor]float64{
		FactorCMLImpact:        a.CMLCost,
		FactorMaintenanceDelay: in.RepairDelayMinutes,
		FactorTankerResource:   a.ResourceRatio,
		FactorAssetsAtRisk:     boolToFloat(in.AssetsAtRisk),
		FactorCriticalCust:     boolToFloat(in.CriticalCustomers),
		FactorCostBenefit:      a.CostBenefit,
	}

	a.Breakdown = make(map[Factor]float64, len(raw))
	for f, value := range raw {
		norm := normalize(value, s.Ranges[f])
		if f == FactorMaintenanceDelay {
			// Lower delay is better.
			norm = 1 - norm
		}
		a.Breakdown[f] = norm
		a.Score += s.Weights[f] * norm
	}

	a.Deploy = a.Score >= s.Threshold
	return a
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
