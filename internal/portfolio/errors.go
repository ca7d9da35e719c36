package portfolio

import "errors"

// Ledger invariant violations. A correctly clamped order never trips these;
// when one fires the day is recorded as failed and the run continues.
var (
	ErrInsufficientCash   = errors.New("insufficient cash for buy")
	ErrInsufficientShares = errors.New("insufficient shares for sell")
	ErrSettlementLocked   = errors.New("shares not yet settled for sale")
	ErrBadQuantity        = errors.New("quantity must be a positive lot multiple")
)
