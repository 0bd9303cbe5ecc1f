package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/tailored-agentic-units/rfp/rfp"
)

// TestCosts is a fixed acceptance-test price list with case-insensitive
// lookup. It implements pricing.TestCosts.
type TestCosts struct {
	costs map[string]float64
	names map[string]string
}

// NewTestCosts creates a price list from name → cost.
func NewTestCosts(costs map[string]float64) *TestCosts {
	t := &TestCosts{
		costs: make(map[string]float64, len(costs)),
		names: make(map[string]string, len(costs)),
	}
	for name, cost := range costs {
		key := strings.ToLower(strings.TrimSpace(name))
		t.costs[key] = cost
		t.names[key] = name
	}
	return t
}

// DefaultTestCosts returns the standard price list in INR.
func DefaultTestCosts() *TestCosts {
	return NewTestCosts(map[string]float64{
		"High Voltage Dielectric Test": 50000,
		"Conductor Resistance Check":   10000,
		"Site Acceptance Test (SAT)":   120000,
		"Fire Resistance Test":         80000,
		"UL Certification":             200000,
		"IS-1554":                      5000,
		"IEC-60502":                    4000,
		"IS-7098":                      3000,
		"Standard Acceptance":          10000,
	})
}

func (t *TestCosts) CostOf(name string) (float64, error) {
	cost, ok := t.costs[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %s", rfp.ErrUnknownTest, name)
	}
	return cost, nil
}

// Names returns the listed test names in sorted order.
func (t *TestCosts) Names() []string {
	return slices.Sorted(maps.Values(t.names))
}
