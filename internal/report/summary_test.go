package report

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"TradeBench/internal/model"
	"TradeBench/internal/sim"
)

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func exitRow(d int, pnl, fees float64) model.TradeRecord {
	return model.TradeRecord{
		Date: day(d), Symbol: "000001",
		Final: model.SignalSell, Quantity: 100, Success: true,
		RealizedPnL: dec(pnl), Fees: dec(fees),
	}
}

func buyRow(d int, fees float64) model.TradeRecord {
	return model.TradeRecord{
		Date: day(d), Symbol: "000001",
		Final: model.SignalBuy, Quantity: 100, Success: true,
		Fees: dec(fees),
	}
}

func testOutput() *sim.RunOutput {
	return &sim.RunOutput{
		RunID: "test-run",
		Results: []sim.SymbolResult{{
			Symbol: "000001",
			Portfolio: model.PortfolioState{
				Symbol:      "000001",
				InitialCash: dec(100000),
				Cash:        dec(100150),
				RealizedPnL: dec(150),
			},
			Rows: []model.TradeRecord{
				buyRow(2, 3),
				exitRow(3, 200, 5),
				buyRow(4, 3),
				exitRow(5, -50, 4),
			},
			Curve: []model.EquityPoint{
				{Date: day(2), Equity: dec(100000)},
				{Date: day(3), Equity: dec(100200)},
				{Date: day(4), Equity: dec(100100)},
				{Date: day(5), Equity: dec(100150)},
			},
		}},
	}
}

func TestSummarizeAggregates(t *testing.T) {
	sum := Summarize(testOutput())

	if sum.TradeCount != 4 {
		t.Errorf("expected 4 trades, got %d", sum.TradeCount)
	}
	if sum.WinRate != 0.5 {
		t.Errorf("one win and one loss should give win rate 0.5, got %v", sum.WinRate)
	}
	if got := sum.ProfitFactor; math.Abs(got-4.0) > 1e-9 {
		t.Errorf("gross profit 200 over gross loss 50 should give 4.0, got %v", got)
	}
	if got := sum.FeesTotal.StringFixed(2); got != "15.00" {
		t.Errorf("fees should total 15.00, got %s", got)
	}
	if got := sum.FinalEquity.StringFixed(2); got != "100150.00" {
		t.Errorf("final equity should be 100150.00, got %s", got)
	}

	ss := sum.Symbols[0]
	if got := ss.TotalReturnPct; math.Abs(got-0.0015) > 1e-9 {
		t.Errorf("expected 0.15%% return, got %v", got)
	}
}

func TestMaxDrawdown(t *testing.T) {
	curve := []model.EquityPoint{
		{Equity: dec(100)},
		{Equity: dec(120)},
		{Equity: dec(90)}, // 25% off the 120 peak
		{Equity: dec(130)},
		{Equity: dec(117)}, // 10% off the 130 peak
	}
	if got := maxDrawdown(curve); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("expected 0.25, got %v", got)
	}
	if got := maxDrawdown(nil); got != 0 {
		t.Errorf("empty curve should have zero drawdown, got %v", got)
	}
}

func TestProfitFactorEdgeCases(t *testing.T) {
	if got := profitFactor(dec(100), decimal.Zero); !math.IsInf(got, 1) {
		t.Errorf("no losses should give +inf, got %v", got)
	}
	if got := profitFactor(decimal.Zero, decimal.Zero); got != 0 {
		t.Errorf("no closed trades should give 0, got %v", got)
	}
}

func TestFormatIncludesKeyLines(t *testing.T) {
	text := Format(Summarize(testOutput()))
	for _, want := range []string{"test-run", "000001", "final equity", "win rate", "max drawdown"} {
		if !strings.Contains(text, want) {
			t.Errorf("report should mention %q:\n%s", want, text)
		}
	}
}
