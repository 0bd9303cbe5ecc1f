// Package rfp defines the request-for-proposal data model shared by every
// stage of the bid workflow: the immutable incoming request, its line items,
// the catalog candidates offered against them, and the error taxonomy used to
// classify workflow failures.
package rfp

import (
	"fmt"
	"strings"
)

// Request is an incoming request for proposal. It is created once per
// submission and never mutated by the workflow.
type Request struct {
	ID                     string     `json:"id" yaml:"id"`
	Title                  string     `json:"title" yaml:"title"`
	Client                 string     `json:"client" yaml:"client"`
	DueDate                string     `json:"due_date" yaml:"due_date"`
	Lines                  []LineItem `json:"lines" yaml:"lines"`
	Tests                  []string   `json:"tests,omitempty" yaml:"tests"`
	BidBond                BidBond    `json:"bid_bond" yaml:"bid_bond"`
	LiquidatedDamages      bool       `json:"liquidated_damages" yaml:"liquidated_damages"`
	PerformanceBondPercent float64    `json:"performance_bond_percent" yaml:"performance_bond_percent"`
}

// BidBond describes the bid security demanded by the client.
type BidBond struct {
	Required bool    `json:"required" yaml:"required"`
	Value    float64 `json:"value" yaml:"value"`
}

// LineItem is a single requested cable product. Quantity is in metres and
// SizeMM2 is the conductor cross-section in square millimetres.
type LineItem struct {
	Line        int     `json:"line" yaml:"line"`
	Description string  `json:"description,omitempty" yaml:"description"`
	Quantity    float64 `json:"quantity" yaml:"quantity"`
	Material    string  `json:"material" yaml:"material"`
	Insulation  string  `json:"insulation" yaml:"insulation"`
	Cores       int     `json:"cores" yaml:"cores"`
	SizeMM2     float64 `json:"size_mm2" yaml:"size_mm2"`
	VoltageKV   float64 `json:"voltage_kv" yaml:"voltage_kv"`
}

// CandidateSKU is a catalog product offered by the search collaborator.
// BasePrice is the fabrication price per metre and MetalWeightKgPerKm the
// conductor metal content per kilometre.
type CandidateSKU struct {
	ID                 string   `json:"id" yaml:"id"`
	Material           string   `json:"material" yaml:"material"`
	Insulation         string   `json:"insulation" yaml:"insulation"`
	Cores              int      `json:"cores" yaml:"cores"`
	SizeMM2            float64  `json:"size_mm2" yaml:"size_mm2"`
	VoltageKV          float64  `json:"voltage_kv" yaml:"voltage_kv"`
	BasePrice          float64  `json:"base_price" yaml:"base_price"`
	MetalWeightKgPerKm float64  `json:"metal_weight_kg_per_km" yaml:"metal_weight_kg_per_km"`
	Certifications     []string `json:"certifications,omitempty" yaml:"certifications"`
}

// Validate checks the structural shape of the request, including that line
// numbers are unique once defaulted to position. Semantic checks such
// as due-date parsing and quantity bounds belong to the stage that consumes
// the field.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: request id is required", ErrInvalidInput)
	}

	if len(r.Lines) == 0 {
		return fmt.Errorf("%w: request %s has no line items", ErrInvalidInput, r.ID)
	}

	seen := make(map[int]int, len(r.Lines))
	for i, item := range r.Lines {
		if item.Line < 0 {
			return fmt.Errorf("%w: line %d: negative line number %d", ErrInvalidInput, i+1, item.Line)
		}
		ordinal := item.Ordinal(i)
		if prev, dup := seen[ordinal]; dup {
			return fmt.Errorf("%w: lines %d and %d share line number %d", ErrInvalidInput, prev+1, i+1, ordinal)
		}
		seen[ordinal] = i

		if item.Material == "" {
			return fmt.Errorf("%w: line %d: material is required", ErrInvalidInput, i+1)
		}
		if item.Insulation == "" {
			return fmt.Errorf("%w: line %d: insulation is required", ErrInvalidInput, i+1)
		}
		if item.SizeMM2 <= 0 {
			return fmt.Errorf("%w: line %d: size must be positive", ErrInvalidInput, i+1)
		}
		if item.Cores <= 0 {
			return fmt.Errorf("%w: line %d: core count must be positive", ErrInvalidInput, i+1)
		}
	}

	return nil
}

// Ordinal is the line number, defaulting to the 1-based position pos+1
// when the request left it unset.
func (l LineItem) Ordinal(pos int) int {
	if l.Line == 0 {
		return pos + 1
	}
	return l.Line
}

// Normalized returns a copy of the request with line ordinals filled in and
// materials normalised. The receiver is left untouched.
func (r Request) Normalized() Request {
	lines := make([]LineItem, len(r.Lines))
	for i, item := range r.Lines {
		item.Line = item.Ordinal(i)
		item.Material = NormalizeMaterial(item.Material)
		item.Insulation = NormalizeInsulation(item.Insulation)
		lines[i] = item
	}
	r.Lines = lines
	r.Tests = append([]string(nil), r.Tests...)
	return r
}
