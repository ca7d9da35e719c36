// Package guardrail is the single authority allowed to change or veto a
// proposed signal. Rules run in a fixed precedence order; the first veto is
// terminal, sizing rules compose. Any panic while evaluating resolves to a
// hold order, never a crash.
package guardrail

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"TradeBench/internal/config"
	"TradeBench/internal/model"
)

// Sizer computes the largest lot-aligned buy quantity cash can afford at
// the day's effective price. The portfolio ledger implements it.
type Sizer interface {
	MaxBuyShares(snap *model.Snapshot) int64
}

// Input carries everything a day's decision needs. All fields are read-only
// to the engine.
type Input struct {
	Proposal          model.Proposal
	Flags             model.QuantFlags
	CooldownPermitted bool
	SettlementOpen    bool
	State             model.PortfolioState
	Snapshot          *model.Snapshot
	Sizer             Sizer
}

// Engine evaluates the rule pipeline under a fixed configuration.
type Engine struct {
	lot                 int64
	pyramidProfitPct    float64
	pyramidCapFraction  float64
	maxPositionFraction float64
	log                 zerolog.Logger
}

// NewEngine creates a guardrail engine from the run configuration.
func NewEngine(cfg *config.Config, log zerolog.Logger) *Engine {
	return &Engine{
		lot:                 cfg.Market.LotSize,
		pyramidProfitPct:    cfg.Guardrail.PyramidProfitPct,
		pyramidCapFraction:  cfg.Guardrail.PyramidCapFraction,
		maxPositionFraction: cfg.Guardrail.MaxPositionFraction,
		log:                 log.With().Str("component", "guardrail").Logger(),
	}
}

// rule is one step of the pipeline. A true second return value ends
// evaluation with the returned order.
type rule struct {
	name  string
	apply func(e *Engine, in Input, ord model.Order) (model.Order, bool)
}

var pipeline = []rule{
	{"settlement_veto", (*Engine).settlementVeto},
	{"limit_move_veto", (*Engine).limitMoveVeto},
	{"cooldown_veto", (*Engine).cooldownVeto},
	{"buy_eligibility_gate", (*Engine).buyEligibilityGate},
	{"trend_exemption", (*Engine).trendExemption},
	{"profit_scaling", (*Engine).profitScaling},
	{"lot_budget_clamp", (*Engine).lotBudgetClamp},
}

// Decide turns a raw proposal into the final, legal order.
func (e *Engine) Decide(in Input) (out model.Order) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Str("symbol", in.State.Symbol).
				Msg("rule evaluation panicked, failing safe to hold")
			out = model.Hold(fmt.Sprintf("guardrail failure: %v", r))
		}
	}()

	if !in.Proposal.Signal.Valid() {
		return model.Hold(fmt.Sprintf("unknown signal %q", in.Proposal.Signal))
	}
	ord := model.Order{Signal: in.Proposal.Signal, Quantity: in.Proposal.Quantity}
	if ord.Signal == model.SignalHold {
		ord.Quantity = 0
		return ord
	}

	for _, r := range pipeline {
		var stop bool
		ord, stop = r.apply(e, in, ord)
		if stop {
			e.log.Debug().Str("rule", r.name).Str("symbol", in.State.Symbol).
				Str("final", string(ord.Signal)).Str("reason", ord.Reason).
				Msg("rule terminated evaluation")
			return ord
		}
	}
	return ord
}

// Rule 1: shares bought on a still-unsettled day may not be sold.
func (e *Engine) settlementVeto(in Input, ord model.Order) (model.Order, bool) {
	if ord.Signal.IsExit() && !in.SettlementOpen {
		return model.Hold("settlement lock: shares not yet available to sell"), true
	}
	return ord, false
}

// Rule 2: no buying into a limit-up close, no selling into a limit-down close.
func (e *Engine) limitMoveVeto(in Input, ord model.Order) (model.Order, bool) {
	if ord.Signal == model.SignalBuy && in.Flags.IsLimitUp {
		return model.Hold("limit up: buy blocked"), true
	}
	if ord.Signal.IsExit() && in.Flags.IsLimitDown {
		return model.Hold("limit down: sell blocked"), true
	}
	return ord, false
}

// Rule 3: buys need the cooldown tracker's permission.
func (e *Engine) cooldownVeto(in Input, ord model.Order) (model.Order, bool) {
	if ord.Signal == model.SignalBuy && !in.CooldownPermitted {
		return model.Hold("cooldown lockout active"), true
	}
	return ord, false
}

// Rule 4: buys need at least one bullish flag; no-signal days never buy.
func (e *Engine) buyEligibilityGate(in Input, ord model.Order) (model.Order, bool) {
	if ord.Signal == model.SignalBuy && !in.Flags.AnyBuySignal() {
		return model.Hold("no bullish flag set"), true
	}
	return ord, false
}

// Rule 5: a strong uptrend suppresses sells unless the stricter
// extreme-overbought reading is also present.
func (e *Engine) trendExemption(in Input, ord model.Order) (model.Order, bool) {
	if ord.Signal.IsExit() && in.Flags.IsSuperTrend && !in.Flags.IsExtremeOverbought {
		return model.Hold("super trend active: sell suppressed"), true
	}
	return ord, false
}

// Rule 6: raise a buy on a profitable position when momentum confirms.
// Sizing only; this never converts a veto into an execution.
func (e *Engine) profitScaling(in Input, ord model.Order) (model.Order, bool) {
	if ord.Signal != model.SignalBuy || !in.State.HasPosition() || !in.Flags.IsMomentumBuy {
		return ord, false
	}
	price := decimal.NewFromFloat(in.Snapshot.Close)
	if in.State.UnrealizedGainPct(price) <= e.pyramidProfitPct {
		return ord, false
	}
	target := e.lotAlign(int64(float64(in.Sizer.MaxBuyShares(in.Snapshot)) * e.pyramidCapFraction))
	if target > ord.Quantity {
		ord.Quantity = target
		ord.Reason = "profit scaling: quantity raised on momentum"
	}
	return ord, false
}

// Rule 7: the final, unconditional clamp. Buys are lot-aligned within
// budget; sells never exceed held shares; closes liquidate fully.
func (e *Engine) lotBudgetClamp(in Input, ord model.Order) (model.Order, bool) {
	switch ord.Signal {
	case model.SignalBuy:
		budget := e.lotAlign(int64(float64(in.Sizer.MaxBuyShares(in.Snapshot)) * e.maxPositionFraction))
		qty := e.lotAlign(ord.Quantity)
		if qty == 0 || qty > budget {
			qty = budget
		}
		if qty <= 0 {
			return model.Hold("no affordable lot within budget"), true
		}
		ord.Quantity = qty
	case model.SignalSell:
		if in.State.Shares == 0 {
			return model.Hold("no position to sell"), true
		}
		if ord.Quantity <= 0 || ord.Quantity > in.State.Shares {
			ord.Quantity = in.State.Shares
		}
	case model.SignalClose:
		if in.State.Shares == 0 {
			return model.Hold("no position to close"), true
		}
		ord.Quantity = in.State.Shares
	}
	return ord, true
}

func (e *Engine) lotAlign(qty int64) int64 {
	if qty < 0 {
		return 0
	}
	return qty - qty%e.lot
}
