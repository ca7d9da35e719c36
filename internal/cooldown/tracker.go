// Package cooldown implements the per-symbol re-entry lockout. A successful
// sell or close arms a lockout lasting a configured number of trading days;
// an oversold or pullback-to-trend reading releases it early.
package cooldown

import (
	"time"

	"TradeBench/internal/model"
)

// Tracker holds the lockout state for one symbol. The simulation driver owns
// one tracker per symbol; nothing here is shared across symbols.
type Tracker struct {
	state model.CooldownState
}

// NewTracker creates an unlocked tracker for symbol.
func NewTracker(symbol string) *Tracker {
	return &Tracker{state: model.CooldownState{Symbol: symbol}}
}

// Restore creates a tracker from previously persisted state.
func Restore(state model.CooldownState) *Tracker {
	return &Tracker{state: state}
}

// Arm locks buying until the given date, typically the trading day a
// configured number of sessions after an executed sell.
func (t *Tracker) Arm(until time.Time) {
	t.state.LockedUntil = until
	t.state.UpdatedAt = time.Now()
}

// Release unlocks immediately, discarding any remaining lockout.
func (t *Tracker) Release() {
	t.state.LockedUntil = time.Time{}
	t.state.UpdatedAt = time.Now()
}

// BuyPermitted reports whether a buy may execute on day, applying the
// early-release condition first. A met release condition unlocks the
// tracker as a side effect, so later days see it unlocked too.
func (t *Tracker) BuyPermitted(day time.Time, releaseMet bool) bool {
	if !t.state.Locked(day) {
		return true
	}
	if releaseMet {
		t.Release()
		return true
	}
	return false
}

// State returns a copy of the current state for persistence.
func (t *Tracker) State() model.CooldownState { return t.state }
