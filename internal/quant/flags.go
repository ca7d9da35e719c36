// Package quant derives the per-day regime flags the guardrail engine and
// decision sources consume. Evaluation is a pure function of the snapshots:
// missing inputs leave the affected flag unset, never an error.
package quant

import (
	"TradeBench/internal/config"
	"TradeBench/internal/model"
)

// Calculator evaluates regime flags under a fixed set of thresholds.
type Calculator struct {
	cfg config.Config
}

// NewCalculator creates a flag calculator from the run configuration.
func NewCalculator(cfg *config.Config) *Calculator {
	return &Calculator{cfg: *cfg}
}

// Evaluate computes the flag record for snap. prev is the prior trading
// day's snapshot and may be nil, in which case the two-day trend
// confirmation cannot hold. limitThreshold is the daily limit band for the
// symbol's board as a fraction; zero disables the limit flags.
func (c *Calculator) Evaluate(snap, prev *model.Snapshot, limitThreshold float64) model.QuantFlags {
	f := model.QuantFlags{}
	if snap == nil {
		return f
	}
	t := c.cfg.Flags

	price := snap.Close
	histOK := model.Has(snap.MACDHist)
	prevHistOK := model.Has(snap.PrevMACDHist)
	histPositive := histOK && snap.MACDHist > 0
	histRising := histOK && prevHistOK && snap.MACDHist > snap.PrevMACDHist
	f.MACDHistRising = histRising

	aboveEMA := model.Has(snap.EMA20) && price > snap.EMA20
	belowEMA := model.Has(snap.EMA20) && price < snap.EMA20

	// Two-day confirmation needs yesterday's close above yesterday's EMA20.
	aboveEMA2d := aboveEMA && prev != nil &&
		model.Has(prev.EMA20) && prev.Close > prev.EMA20

	f.IsTrendBuyStrict = histPositive && histRising && aboveEMA2d &&
		model.Has(snap.RSI12) && snap.RSI12 >= t.TrendBuyRSI

	f.IsExploratoryBuy = !histPositive && histOK && histRising && aboveEMA &&
		model.Has(snap.RSI12) && snap.RSI12 >= t.ExploratoryRSI

	// A falling red-to-deeper histogram below the EMA disqualifies
	// mean-reversion entries: the knife is still falling.
	meanRevDisabled := belowEMA && histOK && prevHistOK &&
		snap.MACDHist < snap.PrevMACDHist && snap.MACDHist < 0
	f.IsMeanReversionBuy = model.Has(snap.BollLower) &&
		price <= snap.BollLower*t.MeanRevBollRatio &&
		model.Has(snap.RSI6) && snap.RSI6 <= t.OversoldRSI &&
		!meanRevDisabled

	f.IsSuperTrend = aboveEMA &&
		model.Has(snap.RSI6) && snap.RSI6 >= t.SuperTrendRSI &&
		histPositive

	f.IsExtremeOverbought = model.Has(snap.BollUpper) &&
		price >= snap.BollUpper*t.ExtremeBollRatio &&
		model.Has(snap.RSI6) && snap.RSI6 >= t.ExtremeRSI

	f.IsMomentumBuy = histPositive && histRising &&
		model.Has(snap.RSI12) && snap.RSI12 > t.MomentumRSILow && snap.RSI12 < t.MomentumRSIHigh

	f.IsTrendInvalidationSell = histOK && prevHistOK &&
		snap.MACDHist < snap.PrevMACDHist && belowEMA

	if model.Has(snap.RSI6) && snap.RSI6 < t.ReleaseRSI {
		f.IsCooldownReleaseMet = true
	}
	if model.Has(snap.EMA20) && price >= snap.EMA20 && price <= snap.EMA20*(1+t.ReleaseEMABandPct) {
		f.IsCooldownReleaseMet = true
	}

	if limitThreshold > 0 && model.Has(snap.PctChange) {
		f.IsLimitUp = snap.PctChange >= limitThreshold
		f.IsLimitDown = snap.PctChange <= -limitThreshold
	}

	return f
}
