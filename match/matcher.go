package match

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/rfp/rfp"
)

// Searcher retrieves a ranked candidate set for a line item. Implementations
// own similarity search; the matcher only re-ranks by SMM.
type Searcher interface {
	FindCandidates(ctx context.Context, item rfp.LineItem, topK int) ([]rfp.CandidateSKU, error)
}

// SearcherFunc adapts a function to the Searcher interface.
type SearcherFunc func(ctx context.Context, item rfp.LineItem, topK int) ([]rfp.CandidateSKU, error)

func (f SearcherFunc) FindCandidates(ctx context.Context, item rfp.LineItem, topK int) ([]rfp.CandidateSKU, error) {
	return f(ctx, item, topK)
}

// Matcher couples a Searcher with the relaxation schedule.
type Matcher struct {
	searcher Searcher
	schedule Schedule
	topK     int
}

// NewMatcher creates a Matcher from configuration.
func NewMatcher(searcher Searcher, cfg Config) *Matcher {
	return &Matcher{
		searcher: searcher,
		schedule: cfg.Schedule(),
		topK:     cfg.TopK,
	}
}

// Schedule returns the matcher's relaxation table.
func (m *Matcher) Schedule() Schedule {
	return m.schedule
}

// Match retrieves candidates for item and selects the best one at the
// tolerance level for the given retry count (0 = first attempt).
func (m *Matcher) Match(ctx context.Context, item rfp.LineItem, retry int) (Result, error) {
	candidates, err := m.searcher.FindCandidates(ctx, item, m.topK)
	if err != nil {
		if errors.Is(err, rfp.ErrSearchUnavailable) {
			return Result{}, fmt.Errorf("line %d: %w", item.Line, err)
		}
		return Result{}, fmt.Errorf("%w: line %d: %v", rfp.ErrSearchUnavailable, item.Line, err)
	}

	result, err := SelectBest(item, candidates, m.schedule.At(retry))
	if err != nil {
		return Result{}, err
	}

	result.Attempt = retry + 1
	return result, nil
}
