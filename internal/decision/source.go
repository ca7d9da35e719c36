// Package decision provides the proposal side of the day loop: given a
// snapshot, flags and account state, a Source suggests a raw signal. The
// guardrail engine, not the source, has the final word.
package decision

import (
	"context"
	"time"

	"TradeBench/internal/model"
)

// Request is one day's decision query for one symbol.
type Request struct {
	Symbol   string
	Date     time.Time
	Snapshot *model.Snapshot
	Flags    model.QuantFlags
	State    model.PortfolioState
}

// Source defines the interface for proposing trades. Implementations may be
// slow or occasionally unavailable; callers treat an error as a hold for the
// day. Sources must be safe for concurrent calls across symbols.
type Source interface {
	Propose(ctx context.Context, req Request) (model.Proposal, error)
	Name() string
}
