package model

// Signal is a trading action. Sell reduces a position, Close exits it fully.
type Signal string

const (
	SignalBuy   Signal = "buy"
	SignalSell  Signal = "sell"
	SignalClose Signal = "close"
	SignalHold  Signal = "hold"
)

// Valid reports whether s is one of the four known signals.
func (s Signal) Valid() bool {
	switch s {
	case SignalBuy, SignalSell, SignalClose, SignalHold:
		return true
	}
	return false
}

// IsExit reports whether s disposes of shares.
func (s Signal) IsExit() bool { return s == SignalSell || s == SignalClose }

// Proposal is the raw output of a decision source, before guardrails.
// Quantity is in shares for sell, and is advisory for buy (the sizing rules
// may raise or clamp it).
type Proposal struct {
	Signal     Signal
	Quantity   int64
	Rationale  string
	Confidence float64
}

// Order is the final, legal action the guardrail engine hands to the ledger.
// Quantity is in shares, zero for hold.
type Order struct {
	Signal   Signal
	Quantity int64
	// Reason records why the proposed signal was changed or sized, for the
	// audit trail. Empty when the proposal passed through untouched.
	Reason string
}

// Hold is the fail-safe order.
func Hold(reason string) Order {
	return Order{Signal: SignalHold, Quantity: 0, Reason: reason}
}

// QuantFlags is the fixed-shape regime record recomputed each day from a
// snapshot. Fields default to false when their inputs are missing.
type QuantFlags struct {
	IsTrendBuyStrict        bool
	IsExploratoryBuy        bool
	IsMeanReversionBuy      bool
	IsMomentumBuy           bool
	IsSuperTrend            bool
	IsExtremeOverbought     bool
	IsTrendInvalidationSell bool
	IsCooldownReleaseMet    bool
	IsLimitUp               bool
	IsLimitDown             bool
	MACDHistRising          bool
}

// AnyBuySignal reports whether at least one bullish flag is set; buys on
// days with no bullish reading are vetoed by the guardrail engine.
func (f QuantFlags) AnyBuySignal() bool {
	return f.IsTrendBuyStrict || f.IsExploratoryBuy || f.IsMeanReversionBuy ||
		f.IsMomentumBuy || f.IsSuperTrend || f.IsCooldownReleaseMet
}
