// Package report derives the run summary from the ledger stream. Everything
// here is computed from the immutable rows; no mutable aggregate state is
// maintained during the run.
package report

import (
	"math"

	"github.com/shopspring/decimal"

	"TradeBench/internal/model"
	"TradeBench/internal/recorder"
	"TradeBench/internal/sim"
)

// SymbolSummary is one symbol's aggregates over the whole run.
type SymbolSummary struct {
	Symbol         string
	InitialCash    decimal.Decimal
	FinalEquity    decimal.Decimal
	RealizedPnL    decimal.Decimal
	UnrealizedPnL  decimal.Decimal
	TotalReturnPct float64
	FeesTotal      decimal.Decimal
	TradeCount     int
	WinCount       int
	LossCount      int
	WinRate        float64
	ProfitFactor   float64
	MaxDrawdownPct float64
	FailedDays     int
}

// Summary is the batch aggregate across all symbols.
type Summary struct {
	RunID        string
	Symbols      []SymbolSummary
	FinalEquity  decimal.Decimal
	RealizedPnL  decimal.Decimal
	FeesTotal    decimal.Decimal
	TradeCount   int
	FailedDays   int
	WinRate      float64
	ProfitFactor float64
	MaxDrawdown  float64
}

// Summarize computes the run summary from the batch output.
func Summarize(out *sim.RunOutput) *Summary {
	sum := &Summary{RunID: out.RunID}
	var wins, losses int
	grossProfit, grossLoss := decimal.Zero, decimal.Zero
	worstDrawdown := 0.0

	for _, res := range out.Results {
		if res.Err != nil {
			continue
		}
		ss := summarizeSymbol(res)
		sum.Symbols = append(sum.Symbols, ss)

		sum.FinalEquity = sum.FinalEquity.Add(ss.FinalEquity)
		sum.RealizedPnL = sum.RealizedPnL.Add(ss.RealizedPnL)
		sum.FeesTotal = sum.FeesTotal.Add(ss.FeesTotal)
		sum.TradeCount += ss.TradeCount
		sum.FailedDays += ss.FailedDays
		wins += ss.WinCount
		losses += ss.LossCount
		if ss.MaxDrawdownPct > worstDrawdown {
			worstDrawdown = ss.MaxDrawdownPct
		}
		for _, row := range res.Rows {
			if row.RealizedPnL.Sign() > 0 {
				grossProfit = grossProfit.Add(row.RealizedPnL)
			} else if row.RealizedPnL.Sign() < 0 {
				grossLoss = grossLoss.Add(row.RealizedPnL.Neg())
			}
		}
	}

	if wins+losses > 0 {
		sum.WinRate = float64(wins) / float64(wins+losses)
	}
	sum.ProfitFactor = profitFactor(grossProfit, grossLoss)
	sum.MaxDrawdown = worstDrawdown
	return sum
}

func summarizeSymbol(res sim.SymbolResult) SymbolSummary {
	ss := SymbolSummary{
		Symbol:      res.Symbol,
		InitialCash: res.Portfolio.InitialCash,
		RealizedPnL: res.Portfolio.RealizedPnL,
		FailedDays:  res.FailedDays,
	}

	grossProfit, grossLoss := decimal.Zero, decimal.Zero
	for _, row := range res.Rows {
		if !row.Executed() {
			continue
		}
		ss.TradeCount++
		ss.FeesTotal = ss.FeesTotal.Add(row.Fees)
		if row.Final.IsExit() {
			switch row.RealizedPnL.Sign() {
			case 1:
				ss.WinCount++
				grossProfit = grossProfit.Add(row.RealizedPnL)
			case -1:
				ss.LossCount++
				grossLoss = grossLoss.Add(row.RealizedPnL.Neg())
			}
		}
	}
	if ss.WinCount+ss.LossCount > 0 {
		ss.WinRate = float64(ss.WinCount) / float64(ss.WinCount+ss.LossCount)
	}
	ss.ProfitFactor = profitFactor(grossProfit, grossLoss)

	if n := len(res.Curve); n > 0 {
		ss.FinalEquity = res.Curve[n-1].Equity
		// The residual position is marked at the final curve price implicitly;
		// unrealized is final equity minus cash minus nothing else.
		ss.UnrealizedPnL = ss.FinalEquity.Sub(res.Portfolio.Cash).
			Sub(res.Portfolio.AvgEntryPrice.Mul(decimal.NewFromInt(res.Portfolio.Shares)))
		if ss.InitialCash.Sign() > 0 {
			ret, _ := ss.FinalEquity.Sub(ss.InitialCash).Div(ss.InitialCash).Float64()
			ss.TotalReturnPct = ret
		}
		ss.MaxDrawdownPct = maxDrawdown(res.Curve)
	}
	return ss
}

// maxDrawdown returns the largest peak-to-trough equity loss as a fraction.
func maxDrawdown(curve []model.EquityPoint) float64 {
	peak := decimal.Zero
	worst := 0.0
	for _, pt := range curve {
		if pt.Equity.GreaterThan(peak) {
			peak = pt.Equity
		}
		if peak.Sign() > 0 {
			dd, _ := peak.Sub(pt.Equity).Div(peak).Float64()
			if dd > worst {
				worst = dd
			}
		}
	}
	return worst
}

func profitFactor(grossProfit, grossLoss decimal.Decimal) float64 {
	if grossLoss.Sign() == 0 {
		if grossProfit.Sign() > 0 {
			return math.Inf(1)
		}
		return 0
	}
	pf, _ := grossProfit.Div(grossLoss).Float64()
	return pf
}

// ToRecorderResult converts the summary into the shape the runs table stores.
func ToRecorderResult(sum *Summary) *recorder.RunResult {
	return &recorder.RunResult{
		FinalEquity:  sum.FinalEquity.String(),
		RealizedPnL:  sum.RealizedPnL.String(),
		FeesTotal:    sum.FeesTotal.String(),
		WinRate:      sum.WinRate,
		ProfitFactor: sum.ProfitFactor,
		MaxDrawdown:  sum.MaxDrawdown,
		TradeCount:   sum.TradeCount,
		FailedDays:   sum.FailedDays,
	}
}
