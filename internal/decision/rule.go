package decision

import (
	"context"

	"TradeBench/internal/model"
)

// RuleSource is the built-in baseline strategy: exit on regime breakdown or
// extreme overbought readings, enter on any bullish flag, otherwise hold.
// Quantities are left to the sizing rules.
type RuleSource struct{}

func (RuleSource) Name() string { return "rule" }

func (RuleSource) Propose(_ context.Context, req Request) (model.Proposal, error) {
	f := req.Flags

	if req.State.HasPosition() {
		if f.IsExtremeOverbought {
			return model.Proposal{Signal: model.SignalClose, Rationale: "extreme overbought", Confidence: 0.9}, nil
		}
		if f.IsTrendInvalidationSell {
			return model.Proposal{Signal: model.SignalSell, Rationale: "trend invalidation", Confidence: 0.7}, nil
		}
	}

	switch {
	case f.IsTrendBuyStrict:
		return model.Proposal{Signal: model.SignalBuy, Rationale: "strict trend entry", Confidence: 0.8}, nil
	case f.IsMeanReversionBuy:
		return model.Proposal{Signal: model.SignalBuy, Rationale: "mean reversion entry", Confidence: 0.6}, nil
	case f.IsMomentumBuy:
		return model.Proposal{Signal: model.SignalBuy, Rationale: "momentum entry", Confidence: 0.6}, nil
	case f.IsExploratoryBuy:
		return model.Proposal{Signal: model.SignalBuy, Rationale: "exploratory entry", Confidence: 0.4}, nil
	}
	return model.Proposal{Signal: model.SignalHold, Rationale: "no signal"}, nil
}
