package cooldown

import (
	"path/filepath"
	"testing"
	"time"

	"TradeBench/internal/model"
)

func date(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func TestLockoutAndNaturalExpiry(t *testing.T) {
	tr := NewTracker("600519")

	if !tr.BuyPermitted(date(2), false) {
		t.Fatal("fresh tracker should permit buying")
	}

	tr.Arm(date(5))
	if tr.BuyPermitted(date(3), false) {
		t.Error("buy must be denied while locked")
	}
	if tr.BuyPermitted(date(4), false) {
		t.Error("buy must be denied the day before expiry")
	}
	if !tr.BuyPermitted(date(5), false) {
		t.Error("lockout expires on its until date")
	}
}

func TestEarlyRelease(t *testing.T) {
	tr := NewTracker("600519")
	tr.Arm(date(10))

	if tr.BuyPermitted(date(3), false) {
		t.Fatal("locked without release condition")
	}
	if !tr.BuyPermitted(date(3), true) {
		t.Fatal("release condition must unlock immediately")
	}
	// Release is sticky: the next day needs no release reading.
	if !tr.BuyPermitted(date(4), false) {
		t.Error("tracker must stay unlocked after an early release")
	}
}

func TestStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cooldown.json")

	tr := NewTracker("600519")
	tr.Arm(date(9))
	if err := SaveState(path, map[string]model.CooldownState{"600519": tr.State()}); err != nil {
		t.Fatalf("save: %v", err)
	}

	states, err := LoadState(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	restored := Restore(states["600519"])
	if restored.BuyPermitted(date(5), false) {
		t.Error("restored tracker should still be locked")
	}
	if !restored.BuyPermitted(date(9), false) {
		t.Error("restored tracker should unlock on the until date")
	}
}

func TestLoadStateMissingFile(t *testing.T) {
	states, err := LoadState(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing file should not error: %v", err)
	}
	if len(states) != 0 {
		t.Errorf("expected empty map, got %d entries", len(states))
	}
}
