package rfp

import "errors"

// Kind names the class of a workflow failure.
type Kind string

const (
	KindInvalidInput       Kind = "InvalidInput"
	KindNoCandidates       Kind = "NoCandidatesAvailable"
	KindSearchUnavailable  Kind = "SearchUnavailable"
	KindUnknownCommodity   Kind = "UnknownCommodity"
	KindUnknownTest        Kind = "UnknownTest"
	KindNonPositiveQty     Kind = "NonPositiveQuantity"
	KindPreconditionFailed Kind = "PreconditionFailed"
	KindInternal           Kind = "Internal"
)

// Sentinel errors for each failure kind. Components wrap these with context
// using fmt.Errorf("%w: ...").
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrNoCandidates        = errors.New("no candidates available")
	ErrSearchUnavailable   = errors.New("search unavailable")
	ErrUnknownCommodity    = errors.New("unknown commodity")
	ErrUnknownTest         = errors.New("unknown test")
	ErrNonPositiveQuantity = errors.New("non-positive quantity")
	ErrPreconditionFailed  = errors.New("precondition failed")
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrInvalidInput, KindInvalidInput},
	{ErrNoCandidates, KindNoCandidates},
	{ErrSearchUnavailable, KindSearchUnavailable},
	{ErrUnknownCommodity, KindUnknownCommodity},
	{ErrUnknownTest, KindUnknownTest},
	{ErrNonPositiveQuantity, KindNonPositiveQty},
	{ErrPreconditionFailed, KindPreconditionFailed},
}

// KindOf classifies err against the sentinel errors. Errors outside the
// taxonomy (cancellation, graph faults) report KindInternal; nil reports "".
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}
