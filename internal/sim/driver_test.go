package sim

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"TradeBench/internal/config"
	"TradeBench/internal/decision"
	"TradeBench/internal/market"
	"TradeBench/internal/model"
	"TradeBench/internal/recorder"
)

func testCfg(start, end time.Time) *config.Config {
	cfg := &config.Config{}
	cfg.Run.Symbols = []string{"000001"}
	cfg.Run.StartDate = start.Format("2006-01-02")
	cfg.Run.EndDate = end.Format("2006-01-02")
	cfg.Run.InitialCash = 100000
	cfg.Run.Mode = "backtest"
	cfg.Market.LotSize = 100
	cfg.Market.SettlementOffsetDays = 1
	cfg.Market.CommissionRate = 0.0003
	cfg.Market.StampDutyRate = 0.0005
	cfg.Market.TransferFeeRate = 0.00001
	cfg.Market.LimitThreshold = 0.098
	cfg.Market.LimitThresholdGrowth = 0.195
	cfg.Flags.SuperTrendRSI = 65
	cfg.Flags.ExtremeRSI = 85
	cfg.Flags.ExtremeBollRatio = 1.02
	cfg.Flags.OversoldRSI = 30
	cfg.Flags.MeanRevBollRatio = 1.01
	cfg.Flags.MomentumRSILow = 50
	cfg.Flags.MomentumRSIHigh = 80
	cfg.Flags.TrendBuyRSI = 55
	cfg.Flags.ExploratoryRSI = 50
	cfg.Flags.ReleaseRSI = 40
	cfg.Flags.ReleaseEMABandPct = 0.015
	cfg.Cooldown.LockoutDays = 3
	cfg.Guardrail.PyramidProfitPct = 0.05
	cfg.Guardrail.PyramidCapFraction = 0.5
	cfg.Guardrail.MaxPositionFraction = 1.0
	return cfg
}

// spikeBars builds 46 weekday sessions: a steady 0.4% uptrend, an 8% spike
// on the 41st session, then the uptrend resumes.
func spikeBars() []model.OHLCV {
	var bars []model.OHLCV
	day := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC) // a Monday
	price := 10.0
	for i := 0; i < 46; i++ {
		for day.Weekday() == time.Saturday || day.Weekday() == time.Sunday {
			day = day.AddDate(0, 0, 1)
		}
		if i > 0 {
			if i == 40 {
				price *= 1.08
			} else {
				price *= 1.004
			}
		}
		bars = append(bars, model.OHLCV{
			Time:   day,
			Open:   price,
			High:   price * 1.01,
			Low:    price * 0.99,
			Close:  price,
			Volume: 1000000,
		})
		day = day.AddDate(0, 0, 1)
	}
	return bars
}

func key(t time.Time) string { return t.Format("2006-01-02") }

func TestRunSymbolCooldownBlocksReentry(t *testing.T) {
	bars := spikeBars()
	cfg := testCfg(bars[39].Time, bars[45].Time)

	source := &decision.ScriptedSource{Proposals: map[string]model.Proposal{
		key(bars[39].Time): {Signal: model.SignalBuy, Rationale: "enter trend"},
		key(bars[40].Time): {Signal: model.SignalSell, Rationale: "take profit"},
		key(bars[41].Time): {Signal: model.SignalBuy, Rationale: "re-enter"},
		key(bars[42].Time): {Signal: model.SignalBuy, Rationale: "re-enter"},
		key(bars[43].Time): {Signal: model.SignalBuy, Rationale: "re-enter"},
	}}
	d := NewDriver(cfg, &market.MockProvider{Bars: bars}, source, zerolog.Nop())

	res := d.RunSymbol(context.Background(), "000001")
	if res.Err != nil {
		t.Fatalf("run failed: %v", res.Err)
	}
	if len(res.Rows) != 7 {
		t.Fatalf("expected 7 ledger rows, got %d", len(res.Rows))
	}
	if res.FailedDays != 0 {
		t.Fatalf("expected no failed days, got %d", res.FailedDays)
	}

	// Session 1: the uptrend entry executes.
	if !res.Rows[0].Executed() || res.Rows[0].Final != model.SignalBuy {
		t.Fatalf("expected executed buy on first session, got %+v", res.Rows[0])
	}
	// Session 2: the spike clears the trend exemption and the sell books a profit.
	if !res.Rows[1].Executed() || !res.Rows[1].Final.IsExit() {
		t.Fatalf("expected executed sell on spike session, got %+v", res.Rows[1])
	}
	if res.Rows[1].RealizedPnL.Sign() <= 0 {
		t.Errorf("spike exit should realize a profit, got %s", res.Rows[1].RealizedPnL)
	}
	// Sessions 3 and 4: cooldown lockout vetoes the re-entry.
	for _, i := range []int{2, 3} {
		if res.Rows[i].Final != model.SignalHold {
			t.Errorf("session %d should be vetoed to hold, got %s", i+1, res.Rows[i].Final)
		}
		if !strings.Contains(res.Rows[i].Note, "cooldown") {
			t.Errorf("session %d note should name the cooldown, got %q", i+1, res.Rows[i].Note)
		}
	}
	// Session 5: the lockout has expired naturally.
	if !res.Rows[4].Executed() || res.Rows[4].Final != model.SignalBuy {
		t.Errorf("expected re-entry after lockout expiry, got %+v", res.Rows[4])
	}
}

func TestRunSymbolDeterminism(t *testing.T) {
	bars := spikeBars()
	cfg := testCfg(bars[39].Time, bars[45].Time)
	source := &decision.ScriptedSource{Proposals: map[string]model.Proposal{
		key(bars[39].Time): {Signal: model.SignalBuy},
		key(bars[40].Time): {Signal: model.SignalSell},
	}}

	run := func() SymbolResult {
		d := NewDriver(cfg, &market.MockProvider{Bars: bars}, source, zerolog.Nop())
		return d.RunSymbol(context.Background(), "000001")
	}
	a, b := run(), run()

	if len(a.Rows) != len(b.Rows) {
		t.Fatalf("row counts differ: %d vs %d", len(a.Rows), len(b.Rows))
	}
	for i := range a.Rows {
		if a.Rows[i].Final != b.Rows[i].Final ||
			a.Rows[i].Quantity != b.Rows[i].Quantity ||
			!a.Rows[i].CashAfter.Equal(b.Rows[i].CashAfter) ||
			!a.Rows[i].EquityAfter.Equal(b.Rows[i].EquityAfter) {
			t.Fatalf("row %d differs between identical runs: %+v vs %+v", i, a.Rows[i], b.Rows[i])
		}
	}
}

func TestDecisionFailureResolvesToHold(t *testing.T) {
	bars := spikeBars()
	cfg := testCfg(bars[39].Time, bars[45].Time)

	source := &decision.ScriptedSource{
		Proposals: map[string]model.Proposal{
			key(bars[39].Time): {Signal: model.SignalBuy},
		},
		FailOn: map[string]error{
			key(bars[41].Time): errors.New("upstream timeout"),
		},
	}
	d := NewDriver(cfg, &market.MockProvider{Bars: bars}, source, zerolog.Nop())

	res := d.RunSymbol(context.Background(), "000001")
	if res.Err != nil {
		t.Fatalf("run failed: %v", res.Err)
	}
	row := res.Rows[2]
	if row.Final != model.SignalHold {
		t.Errorf("failed decision must hold, got %s", row.Final)
	}
	if !strings.Contains(row.Note, "decision unavailable") {
		t.Errorf("note should record the unavailability, got %q", row.Note)
	}
	// The day before the failure bought; the failure must not disturb it.
	if row.SharesAfter != res.Rows[1].SharesAfter {
		t.Error("a failed day must leave the position unchanged")
	}
	if len(res.Rows) != 7 {
		t.Errorf("the run must continue past the failure, got %d rows", len(res.Rows))
	}
}

func TestRunSymbolRejectsUnknownSymbol(t *testing.T) {
	bars := spikeBars()
	cfg := testCfg(bars[39].Time, bars[45].Time)
	d := NewDriver(cfg, &market.MockProvider{Bars: bars}, decision.RuleSource{}, zerolog.Nop())

	if res := d.RunSymbol(context.Background(), "badsym"); res.Err == nil {
		t.Error("expected an error for an unparseable symbol")
	}
}

func TestBatchRunIndependentSymbols(t *testing.T) {
	bars := spikeBars()
	cfg := testCfg(bars[39].Time, bars[45].Time)
	cfg.Run.Symbols = []string{"000001", "600519"}

	source := &decision.ScriptedSource{Proposals: map[string]model.Proposal{
		key(bars[39].Time): {Signal: model.SignalBuy},
	}}
	d := NewDriver(cfg, &market.MockProvider{Bars: bars}, source, zerolog.Nop())

	out, err := d.Run(context.Background(), recorder.NewNoopRecorder())
	if err != nil {
		t.Fatalf("batch run: %v", err)
	}
	if out.RunID == "" {
		t.Error("batch run should carry a run ID")
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 symbol results, got %d", len(out.Results))
	}
	if out.Results[0].Symbol != "000001" || out.Results[1].Symbol != "600519" {
		t.Errorf("results must keep the configured symbol order: %s, %s",
			out.Results[0].Symbol, out.Results[1].Symbol)
	}
	for _, res := range out.Results {
		if res.Err != nil {
			t.Fatalf("symbol %s failed: %v", res.Symbol, res.Err)
		}
		if len(res.Rows) != 7 {
			t.Errorf("symbol %s expected 7 rows, got %d", res.Symbol, len(res.Rows))
		}
	}
	// Both symbols ran the same series from the same cash; their ledgers
	// must agree except for the Shanghai transfer fee.
	if out.Results[0].Portfolio.Shares != out.Results[1].Portfolio.Shares {
		t.Errorf("independent symbols on identical data should hold the same shares: %d vs %d",
			out.Results[0].Portfolio.Shares, out.Results[1].Portfolio.Shares)
	}
}
