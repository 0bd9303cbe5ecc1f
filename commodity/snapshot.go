// Package commodity provides metal rate tables for commodity-indexed pricing.
// Workflows take a Snapshot once at start and price the whole run from it, so
// a rate update never reaches an in-flight bid.
package commodity

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/tailored-agentic-units/rfp/rfp"
)

// Snapshot is a point-in-time copy of commodity rates in Currency per metric
// tonne, keyed by canonical material name.
type Snapshot struct {
	Rates    map[string]float64 `json:"rates"`
	Currency string             `json:"currency"`
	Source   string             `json:"source,omitempty"`
	TakenAt  time.Time          `json:"taken_at"`
}

// Rate returns the rate for material. Materials are normalised before lookup.
func (s Snapshot) Rate(material string) (float64, error) {
	rate, ok := s.Rates[rfp.NormalizeMaterial(material)]
	if !ok {
		return 0, fmt.Errorf("%w: %s", rfp.ErrUnknownCommodity, material)
	}
	return rate, nil
}

// Materials returns the snapshot's materials in sorted order.
func (s Snapshot) Materials() []string {
	return slices.Sorted(maps.Keys(s.Rates))
}

// Source supplies rate snapshots.
type Source interface {
	Snapshot() Snapshot
}

// Table is a fixed rate table.
type Table struct {
	rates    map[string]float64
	currency string
	now      func() time.Time
}

// NewTable creates a static Source. Keys are normalised material names.
func NewTable(currency string, rates map[string]float64) *Table {
	normalized := make(map[string]float64, len(rates))
	for k, v := range rates {
		normalized[rfp.NormalizeMaterial(k)] = v
	}
	return &Table{rates: normalized, currency: currency, now: time.Now}
}

// DefaultTable returns LME reference rates in USD per tonne.
func DefaultTable() *Table {
	return NewTable("USD", DefaultRates())
}

// DefaultRates are the reference LME rates in USD per tonne.
func DefaultRates() map[string]float64 {
	return map[string]float64{
		rfp.MaterialCopper:    9200,
		rfp.MaterialAluminium: 2400,
	}
}

func (t *Table) Snapshot() Snapshot {
	return Snapshot{
		Rates:    maps.Clone(t.rates),
		Currency: t.currency,
		Source:   "static",
		TakenAt:  t.now(),
	}
}
