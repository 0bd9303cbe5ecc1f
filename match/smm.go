// Package match scores catalog candidates against requested cable line items
// using the weighted spec match metric (SMM) and selects the best candidate
// for each line.
package match

import (
	"math"

	"github.com/tailored-agentic-units/rfp/rfp"
)

// Criterion names one weighted component of the SMM.
type Criterion string

const (
	CriterionMaterial   Criterion = "material"
	CriterionCores      Criterion = "cores"
	CriterionSize       Criterion = "size"
	CriterionInsulation Criterion = "insulation"
)

// Weights are expressed in points out of 100 (0.30 → 30).
var Weights = map[Criterion]float64{
	CriterionMaterial:   30,
	CriterionCores:      25,
	CriterionSize:       25,
	CriterionInsulation: 20,
}

// insulationTiers orders insulation classes by thermal and electrical
// performance. Higher is better.
var insulationTiers = map[string]int{
	"PVC":  1,
	"PE":   2,
	"XLPE": 3,
	"EPR":  4,
}

// Tolerance is one level of the relaxation schedule.
type Tolerance struct {
	// SizeMM2 is credited to the candidate's cross-section before the
	// meet-or-exceed comparison.
	SizeMM2 float64 `json:"size_mm2"`

	// AdjacentInsulation accepts a one-tier-inferior insulation class at half
	// weight.
	AdjacentInsulation bool `json:"adjacent_insulation"`
}

// ComputeSMM scores candidate against item. The result is bounded to
// [0, 100] and the breakdown maps each criterion to its contribution.
func ComputeSMM(item rfp.LineItem, candidate rfp.CandidateSKU, tol Tolerance) (float64, map[Criterion]float64) {
	breakdown := map[Criterion]float64{
		CriterionMaterial:   0,
		CriterionCores:      0,
		CriterionSize:       0,
		CriterionInsulation: 0,
	}

	if rfp.NormalizeMaterial(item.Material) == rfp.NormalizeMaterial(candidate.Material) {
		breakdown[CriterionMaterial] = Weights[CriterionMaterial]
	}

	if item.Cores == candidate.Cores {
		breakdown[CriterionCores] = Weights[CriterionCores]
	}

	if candidate.SizeMM2+tol.SizeMM2 >= item.SizeMM2 {
		breakdown[CriterionSize] = Weights[CriterionSize]
	}

	breakdown[CriterionInsulation] = Weights[CriterionInsulation] * insulationFactor(item.Insulation, candidate.Insulation, tol)

	var score float64
	for _, v := range breakdown {
		score += v
	}

	return math.Min(100, math.Max(0, math.Round(score*100)/100)), breakdown
}

func insulationFactor(required, offered string, tol Tolerance) float64 {
	required = rfp.NormalizeInsulation(required)
	offered = rfp.NormalizeInsulation(offered)

	if required == offered {
		return 1
	}

	reqTier, reqKnown := insulationTiers[required]
	offTier, offKnown := insulationTiers[offered]
	if !reqKnown || !offKnown {
		return 0
	}

	switch {
	case offTier >= reqTier:
		return 1
	case tol.AdjacentInsulation && offTier == reqTier-1:
		return 0.5
	default:
		return 0
	}
}
