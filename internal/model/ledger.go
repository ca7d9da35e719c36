package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one immutable trade-ledger row: exactly one per processed
// trading day per symbol, including hold and failed days.
type TradeRecord struct {
	Date           time.Time
	Symbol         string
	Price          decimal.Decimal // pre-trade close
	Proposed       Signal
	Final          Signal
	Quantity       int64
	EffectivePrice decimal.Decimal // slippage-adjusted execution price
	Success        bool
	Note           string // veto/block reason or decision rationale
	Fees           decimal.Decimal
	RealizedPnL    decimal.Decimal // nonzero only on disposals
	CashAfter      decimal.Decimal
	SharesAfter    int64
	EquityAfter    decimal.Decimal
	DecisionMS     int64 // decision-source latency
}

// Executed reports whether the row moved cash or shares.
func (r TradeRecord) Executed() bool {
	return r.Success && r.Final != SignalHold && r.Quantity > 0
}

// EquityPoint is one point of the run's equity curve.
type EquityPoint struct {
	Date   time.Time
	Cash   decimal.Decimal
	Equity decimal.Decimal
}
