// Package catalog is an in-memory OEM product catalog. It serves candidate
// search by attribute affinity and the fixed acceptance-test price list.
package catalog

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/tailored-agentic-units/rfp/rfp"
)

// File is the on-disk catalog format.
type File struct {
	Products  []rfp.CandidateSKU `yaml:"products"`
	TestCosts map[string]float64 `yaml:"test_costs"`
}

// Catalog holds products and implements match.Searcher.
type Catalog struct {
	products []rfp.CandidateSKU
}

// New creates a Catalog over a copy of products.
func New(products []rfp.CandidateSKU) *Catalog {
	return &Catalog{products: slices.Clone(products)}
}

// Load reads a YAML catalog file. Missing sections fall back to the built-in
// sample products and the standard test price list.
func Load(path string) (*Catalog, *TestCosts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("parse catalog: %w", err)
	}

	products := file.Products
	if len(products) == 0 {
		products = SampleProducts()
	}

	costs := DefaultTestCosts()
	if len(file.TestCosts) > 0 {
		costs = NewTestCosts(file.TestCosts)
	}

	return New(products), costs, nil
}

// Products returns a copy of the catalog contents.
func (c *Catalog) Products() []rfp.CandidateSKU {
	return slices.Clone(c.products)
}

type ranked struct {
	sku      rfp.CandidateSKU
	affinity float64
}

// FindCandidates returns up to topK products ordered by attribute affinity to
// item, highest first, ties by product ID.
func (c *Catalog) FindCandidates(ctx context.Context, item rfp.LineItem, topK int) ([]rfp.CandidateSKU, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", rfp.ErrSearchUnavailable, err)
	}

	scored := make([]ranked, 0, len(c.products))
	for _, p := range c.products {
		scored = append(scored, ranked{sku: p, affinity: Affinity(item, p)})
	}

	slices.SortStableFunc(scored, func(a, b ranked) int {
		if a.affinity != b.affinity {
			return cmp.Compare(b.affinity, a.affinity)
		}
		return cmp.Compare(a.sku.ID, b.sku.ID)
	})

	if topK <= 0 || topK > len(scored) {
		topK = len(scored)
	}

	out := make([]rfp.CandidateSKU, topK)
	for i := range out {
		out[i] = scored[i].sku
	}
	return out, nil
}

// Affinity is the retrieval similarity between a request and a product. It
// rewards close cross-sections in either direction so near misses remain
// reachable under relaxed matching.
func Affinity(item rfp.LineItem, p rfp.CandidateSKU) float64 {
	var score float64

	if rfp.NormalizeMaterial(item.Material) == rfp.NormalizeMaterial(p.Material) {
		score += 30
	}
	if rfp.NormalizeInsulation(item.Insulation) == rfp.NormalizeInsulation(p.Insulation) {
		score += 20
	}
	if item.Cores == p.Cores {
		score += 25
	}
	if item.SizeMM2 > 0 && p.SizeMM2 > 0 {
		score += 25 * math.Min(item.SizeMM2, p.SizeMM2) / math.Max(item.SizeMM2, p.SizeMM2)
	}
	if item.VoltageKV > 0 && item.VoltageKV == p.VoltageKV {
		score += 5
	}

	return score
}
