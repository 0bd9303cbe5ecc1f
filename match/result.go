package match

import (
	"fmt"

	"github.com/tailored-agentic-units/rfp/rfp"
)

// Status is the compliance tier derived from an SMM score.
type Status string

const (
	StatusPerfectMatch Status = "PerfectMatch"
	StatusQualified    Status = "Qualified"
	StatusMarginal     Status = "Marginal"
	StatusNonCompliant Status = "NonCompliant"
)

// Compliant reports whether a line with this status may be priced.
func (s Status) Compliant() bool {
	return s == StatusPerfectMatch || s == StatusQualified || s == StatusMarginal
}

// Qualified reports whether the status clears auto-approval.
func (s Status) Qualified() bool {
	return s == StatusPerfectMatch || s == StatusQualified
}

// Classify maps an SMM score onto its compliance tier.
func Classify(score float64) Status {
	switch {
	case score >= 100:
		return StatusPerfectMatch
	case score >= 85:
		return StatusQualified
	case score >= 80:
		return StatusMarginal
	default:
		return StatusNonCompliant
	}
}

// Result is the best match found for one line item.
type Result struct {
	Line      int                   `json:"line"`
	Candidate *rfp.CandidateSKU     `json:"candidate,omitempty"`
	Score     float64               `json:"score"`
	Breakdown map[Criterion]float64 `json:"breakdown"`
	Status    Status                `json:"status"`
	Attempt   int                   `json:"attempt"`
	Tolerance Tolerance             `json:"tolerance"`
}

// SelectBest scores every candidate and returns the highest scoring one.
// Ties are broken by the lowest candidate ID.
func SelectBest(item rfp.LineItem, candidates []rfp.CandidateSKU, tol Tolerance) (Result, error) {
	if len(candidates) == 0 {
		return Result{}, fmt.Errorf("%w: line %d", rfp.ErrNoCandidates, item.Line)
	}

	var best Result
	for i := range candidates {
		c := candidates[i]
		score, breakdown := ComputeSMM(item, c, tol)

		if best.Candidate != nil {
			if score < best.Score || (score == best.Score && c.ID >= best.Candidate.ID) {
				continue
			}
		}

		best = Result{
			Line:      item.Line,
			Candidate: &c,
			Score:     score,
			Breakdown: breakdown,
			Status:    Classify(score),
			Tolerance: tol,
		}
	}

	return best, nil
}

// Better returns whichever of prev and next scored higher, preferring prev
// on ties. A zero prev (no earlier attempt) always yields next.
func Better(prev, next Result) Result {
	if prev.Candidate == nil || next.Score > prev.Score {
		return next
	}
	return prev
}
