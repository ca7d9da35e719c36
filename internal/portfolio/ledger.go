// Package portfolio owns the per-symbol account: cash, position, cost basis
// and the trade ledger rows. Nothing else mutates PortfolioState.
package portfolio

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"TradeBench/internal/config"
	"TradeBench/internal/market"
	"TradeBench/internal/model"
)

// Ledger applies final orders for one symbol and emits one trade record per
// day. It re-validates every constraint the sizing rules should already have
// honored, because a bad order must fail the day, not corrupt the account.
type Ledger struct {
	state            model.PortfolioState
	fees             FeeSchedule
	lot              int64
	slippage         decimal.Decimal
	settlementOffset int
	cal              *market.Calendar
}

// NewLedger creates a ledger holding only cash.
func NewLedger(symbol string, cfg *config.Config, fees FeeSchedule, cal *market.Calendar) *Ledger {
	cash := decimal.NewFromFloat(cfg.Run.InitialCash)
	return &Ledger{
		state: model.PortfolioState{
			Symbol:      symbol,
			InitialCash: cash,
			Cash:        cash,
		},
		fees:             fees,
		lot:              cfg.Market.LotSize,
		slippage:         decimal.NewFromFloat(cfg.Market.SlippageRate),
		settlementOffset: cfg.Market.SettlementOffsetDays,
		cal:              cal,
	}
}

// Restore creates a ledger continuing from persisted state.
func Restore(state model.PortfolioState, cfg *config.Config, fees FeeSchedule, cal *market.Calendar) *Ledger {
	l := NewLedger(state.Symbol, cfg, fees, cal)
	l.state = state
	return l
}

// State returns a copy of the current account state.
func (l *Ledger) State() model.PortfolioState { return l.state }

// CanSell reports whether held shares have settled by day. Buys settle a
// fixed number of trading days after the purchase.
func (l *Ledger) CanSell(day time.Time) bool {
	if !l.state.HasPosition() || l.state.LastBuyDate.IsZero() {
		return true
	}
	settled := l.cal.Add(l.state.LastBuyDate, l.settlementOffset)
	return !day.Before(settled)
}

// EffectiveBuyPrice is the close plus slippage, capped at the day's high.
func (l *Ledger) EffectiveBuyPrice(snap *model.Snapshot) decimal.Decimal {
	p := decimal.NewFromFloat(snap.Close).Mul(decimal.NewFromInt(1).Add(l.slippage))
	if snap.High > 0 {
		if high := decimal.NewFromFloat(snap.High); p.GreaterThan(high) {
			return high
		}
	}
	return p
}

// EffectiveSellPrice is the close minus slippage, floored at the day's low.
func (l *Ledger) EffectiveSellPrice(snap *model.Snapshot) decimal.Decimal {
	p := decimal.NewFromFloat(snap.Close).Mul(decimal.NewFromInt(1).Sub(l.slippage))
	if snap.Low > 0 {
		if low := decimal.NewFromFloat(snap.Low); p.LessThan(low) {
			return low
		}
	}
	return p
}

// MaxBuyShares is the largest lot-aligned quantity current cash affords at
// the slippage-adjusted price, fees included.
func (l *Ledger) MaxBuyShares(snap *model.Snapshot) int64 {
	return l.fees.MaxBuyShares(l.state.Cash, l.EffectiveBuyPrice(snap), l.lot)
}

// Apply executes the final order against the account and returns the day's
// ledger row. A returned error marks an invariant violation: the row carries
// success=false and the account is left untouched.
func (l *Ledger) Apply(day time.Time, proposed model.Signal, order model.Order, snap *model.Snapshot) (model.TradeRecord, error) {
	row := model.TradeRecord{
		Date:     day,
		Symbol:   l.state.Symbol,
		Price:    decimal.NewFromFloat(snap.Close),
		Proposed: proposed,
		Final:    order.Signal,
		Quantity: order.Quantity,
		Note:     order.Reason,
	}

	var err error
	switch order.Signal {
	case model.SignalBuy:
		err = l.applyBuy(day, order.Quantity, snap, &row)
	case model.SignalSell, model.SignalClose:
		err = l.applySell(day, order.Quantity, snap, &row)
	case model.SignalHold:
		row.Success = true
	default:
		err = fmt.Errorf("unknown signal %q", order.Signal)
	}
	if err != nil {
		row.Success = false
		row.Note = err.Error()
	}

	row.CashAfter = l.state.Cash
	row.SharesAfter = l.state.Shares
	row.EquityAfter = l.state.Equity(decimal.NewFromFloat(snap.Close))
	l.state.UpdatedAt = time.Now()
	return row, err
}

func (l *Ledger) applyBuy(day time.Time, qty int64, snap *model.Snapshot, row *model.TradeRecord) error {
	if qty <= 0 || qty%l.lot != 0 {
		return fmt.Errorf("%w: got %d, lot %d", ErrBadQuantity, qty, l.lot)
	}
	eff := l.EffectiveBuyPrice(snap)
	gross := eff.Mul(decimal.NewFromInt(qty))
	fee := l.fees.BuyFee(gross)
	cost := gross.Add(fee)
	if cost.GreaterThan(l.state.Cash) {
		return fmt.Errorf("%w: need %s, have %s", ErrInsufficientCash, cost, l.state.Cash)
	}

	oldShares := decimal.NewFromInt(l.state.Shares)
	newShares := decimal.NewFromInt(l.state.Shares + qty)
	l.state.AvgEntryPrice = l.state.AvgEntryPrice.Mul(oldShares).
		Add(eff.Mul(decimal.NewFromInt(qty))).
		Div(newShares)
	l.state.Cash = l.state.Cash.Sub(cost)
	l.state.Shares += qty
	l.state.LastBuyDate = day

	row.EffectivePrice = eff
	row.Fees = fee
	row.Success = true
	return nil
}

func (l *Ledger) applySell(day time.Time, qty int64, snap *model.Snapshot, row *model.TradeRecord) error {
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrBadQuantity, qty)
	}
	if qty > l.state.Shares {
		return fmt.Errorf("%w: selling %d, hold %d", ErrInsufficientShares, qty, l.state.Shares)
	}
	if !l.CanSell(day) {
		return fmt.Errorf("%w: bought %s", ErrSettlementLocked, l.state.LastBuyDate.Format("2006-01-02"))
	}

	eff := l.EffectiveSellPrice(snap)
	gross := eff.Mul(decimal.NewFromInt(qty))
	fee := l.fees.SellFee(gross)
	proceeds := gross.Sub(fee)
	realized := proceeds.Sub(l.state.AvgEntryPrice.Mul(decimal.NewFromInt(qty)))

	l.state.Cash = l.state.Cash.Add(proceeds)
	l.state.Shares -= qty
	l.state.RealizedPnL = l.state.RealizedPnL.Add(realized)
	if l.state.Shares == 0 {
		l.state.AvgEntryPrice = decimal.Zero
		l.state.LastBuyDate = time.Time{}
	}

	row.EffectivePrice = eff
	row.Fees = fee
	row.RealizedPnL = realized
	row.Success = true
	return nil
}
