package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioState is the single-symbol account state owned by the ledger.
// It is mutated at most once per trading day, by the ledger alone.
type PortfolioState struct {
	Symbol        string          `json:"symbol"`
	InitialCash   decimal.Decimal `json:"initial_cash"`
	Cash          decimal.Decimal `json:"cash"`
	Shares        int64           `json:"shares"`
	AvgEntryPrice decimal.Decimal `json:"avg_entry_price"` // zero while flat
	LastBuyDate   time.Time       `json:"last_buy_date"`   // settlement anchor, zero while flat
	RealizedPnL   decimal.Decimal `json:"realized_pnl"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// HasPosition reports whether any shares are held.
func (s PortfolioState) HasPosition() bool { return s.Shares > 0 }

// Equity is cash plus position marked at the given price.
func (s PortfolioState) Equity(price decimal.Decimal) decimal.Decimal {
	return s.Cash.Add(price.Mul(decimal.NewFromInt(s.Shares)))
}

// UnrealizedPnL is the open position's gain at the given price, zero while flat.
func (s PortfolioState) UnrealizedPnL(price decimal.Decimal) decimal.Decimal {
	if !s.HasPosition() {
		return decimal.Zero
	}
	return price.Sub(s.AvgEntryPrice).Mul(decimal.NewFromInt(s.Shares))
}

// UnrealizedGainPct is the open position's fractional gain over cost basis,
// zero while flat. Used by the profit-scaling sizing rule.
func (s PortfolioState) UnrealizedGainPct(price decimal.Decimal) float64 {
	if !s.HasPosition() || s.AvgEntryPrice.IsZero() {
		return 0
	}
	gain, _ := price.Sub(s.AvgEntryPrice).Div(s.AvgEntryPrice).Float64()
	return gain
}

// CooldownState is the per-symbol re-entry lockout record.
type CooldownState struct {
	Symbol      string    `json:"symbol"`
	LockedUntil time.Time `json:"locked_until"` // zero while unlocked
	UpdatedAt   time.Time `json:"updated_at"`
}

// Locked reports whether the lockout is still in force on the given day.
func (c CooldownState) Locked(day time.Time) bool {
	return !c.LockedUntil.IsZero() && day.Before(c.LockedUntil)
}
