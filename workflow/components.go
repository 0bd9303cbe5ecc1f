package workflow

import (
	"context"

	"github.com/tailored-agentic-units/rfp/advisory"
	"github.com/tailored-agentic-units/rfp/commodity"
	"github.com/tailored-agentic-units/rfp/match"
	"github.com/tailored-agentic-units/rfp/pricing"
	"github.com/tailored-agentic-units/rfp/rfp"
	"github.com/tailored-agentic-units/rfp/risk"
)

// Qualifier scores a request for bid qualification. *risk.Scorer satisfies it.
type Qualifier interface {
	Score(req rfp.Request) (risk.Result, error)
}

// LineMatcher finds the best candidate for a line at a retry level.
// *match.Matcher satisfies it.
type LineMatcher interface {
	Match(ctx context.Context, item rfp.LineItem, retry int) (match.Result, error)
	Schedule() match.Schedule
}

// Pricer prices matched lines. *pricing.Engine satisfies it.
type Pricer interface {
	Price(req rfp.Request, matches []match.Result, rates commodity.Snapshot) (*pricing.Result, error)
	Config() pricing.Config
}

// Advisor produces the advisory report for a priced bid.
// *advisory.Analyzer satisfies it.
type Advisor interface {
	Analyze(priced *pricing.Result, req rfp.Request) (*advisory.Result, error)
}
