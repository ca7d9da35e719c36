package quant

import (
	"testing"

	"TradeBench/internal/config"
	"TradeBench/internal/model"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
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
	return cfg
}

// baseSnapshot returns a neutral snapshot: above nothing, below nothing,
// every factor present.
func baseSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Close:        10,
		High:         10.2,
		Low:          9.8,
		PrevClose:    10,
		PctChange:    0,
		EMA20:        10,
		RSI6:         50,
		RSI12:        50,
		RSI24:        50,
		MACDHist:     0,
		PrevMACDHist: 0,
		BollUpper:    11,
		BollMid:      10,
		BollLower:    9,
	}
}

func TestSuperTrend(t *testing.T) {
	calc := NewCalculator(testConfig())

	snap := baseSnapshot()
	snap.Close = 10.5
	snap.RSI6 = 70
	snap.MACDHist = 0.1
	snap.PrevMACDHist = 0.05
	f := calc.Evaluate(snap, nil, 0)
	if !f.IsSuperTrend {
		t.Error("price above EMA20 with strong RSI6 and red histogram should be super trend")
	}

	snap.RSI6 = 60
	f = calc.Evaluate(snap, nil, 0)
	if f.IsSuperTrend {
		t.Error("RSI6 below threshold should not be super trend")
	}
}

func TestExtremeOverboughtNeedsBothConditions(t *testing.T) {
	calc := NewCalculator(testConfig())

	snap := baseSnapshot()
	snap.Close = 11.5 // above upper band * 1.02
	snap.RSI6 = 90
	f := calc.Evaluate(snap, nil, 0)
	if !f.IsExtremeOverbought {
		t.Error("band breakout with RSI6 90 should be extreme overbought")
	}

	snap.RSI6 = 80
	f = calc.Evaluate(snap, nil, 0)
	if f.IsExtremeOverbought {
		t.Error("RSI6 80 is below the extreme bar")
	}

	snap.RSI6 = 90
	snap.Close = 11 // at band but not 2% above
	f = calc.Evaluate(snap, nil, 0)
	if f.IsExtremeOverbought {
		t.Error("price must clear the band by the configured ratio")
	}
}

func TestMomentumBuy(t *testing.T) {
	calc := NewCalculator(testConfig())

	snap := baseSnapshot()
	snap.MACDHist = 0.2
	snap.PrevMACDHist = 0.1
	snap.RSI12 = 60
	f := calc.Evaluate(snap, nil, 0)
	if !f.IsMomentumBuy {
		t.Error("rising red histogram with RSI12 60 should be momentum buy")
	}
	if !f.MACDHistRising {
		t.Error("histogram slope should read rising")
	}

	snap.RSI12 = 85
	f = calc.Evaluate(snap, nil, 0)
	if f.IsMomentumBuy {
		t.Error("RSI12 above the upper bound should not be momentum buy")
	}

	snap.RSI12 = 60
	snap.PrevMACDHist = 0.3
	f = calc.Evaluate(snap, nil, 0)
	if f.IsMomentumBuy {
		t.Error("falling histogram should not be momentum buy")
	}
}

func TestTrendBuyStrictNeedsTwoDaysAboveEMA(t *testing.T) {
	calc := NewCalculator(testConfig())

	snap := baseSnapshot()
	snap.Close = 10.5
	snap.MACDHist = 0.2
	snap.PrevMACDHist = 0.1
	snap.RSI12 = 60

	f := calc.Evaluate(snap, nil, 0)
	if f.IsTrendBuyStrict {
		t.Error("without a prior snapshot the two-day confirmation cannot hold")
	}

	prev := baseSnapshot()
	prev.Close = 10.3
	prev.EMA20 = 10.1
	f = calc.Evaluate(snap, prev, 0)
	if !f.IsTrendBuyStrict {
		t.Error("two days above EMA20 with rising red histogram should confirm")
	}

	prev.Close = 9.9
	f = calc.Evaluate(snap, prev, 0)
	if f.IsTrendBuyStrict {
		t.Error("yesterday below EMA20 breaks the confirmation")
	}
}

func TestMeanReversionDisabledWhileFalling(t *testing.T) {
	calc := NewCalculator(testConfig())

	snap := baseSnapshot()
	snap.Close = 9
	snap.RSI6 = 25
	f := calc.Evaluate(snap, nil, 0)
	if !f.IsMeanReversionBuy {
		t.Error("touch of the lower band with oversold RSI6 should be mean reversion buy")
	}

	// Same oversold reading, but the histogram is negative and still
	// deteriorating below the EMA.
	snap.MACDHist = -0.2
	snap.PrevMACDHist = -0.1
	f = calc.Evaluate(snap, nil, 0)
	if f.IsMeanReversionBuy {
		t.Error("deteriorating downtrend should disable mean reversion entries")
	}
}

func TestCooldownRelease(t *testing.T) {
	calc := NewCalculator(testConfig())

	snap := baseSnapshot()
	snap.RSI6 = 35
	f := calc.Evaluate(snap, nil, 0)
	if !f.IsCooldownReleaseMet {
		t.Error("oversold RSI6 should meet the release condition")
	}

	snap = baseSnapshot()
	snap.Close = 10.1
	snap.EMA20 = 10
	f = calc.Evaluate(snap, nil, 0)
	if !f.IsCooldownReleaseMet {
		t.Error("price just above EMA20 within the band should meet the release condition")
	}

	snap.Close = 10.5
	f = calc.Evaluate(snap, nil, 0)
	if f.IsCooldownReleaseMet {
		t.Error("price well above the band should not meet the release condition")
	}
}

func TestLimitFlags(t *testing.T) {
	calc := NewCalculator(testConfig())

	snap := baseSnapshot()
	snap.PctChange = 0.099
	f := calc.Evaluate(snap, nil, 0.098)
	if !f.IsLimitUp {
		t.Error("9.9% gain should read limit up at the 9.8% threshold")
	}

	snap.PctChange = -0.099
	f = calc.Evaluate(snap, nil, 0.098)
	if !f.IsLimitDown {
		t.Error("9.9% loss should read limit down")
	}

	f = calc.Evaluate(snap, nil, 0)
	if f.IsLimitUp || f.IsLimitDown {
		t.Error("zero threshold disables the limit flags")
	}
}

func TestMissingFactorsNeverSetFlags(t *testing.T) {
	calc := NewCalculator(testConfig())

	snap := &model.Snapshot{
		Close:        10,
		PrevClose:    model.Missing(),
		PctChange:    model.Missing(),
		EMA20:        model.Missing(),
		RSI6:         model.Missing(),
		RSI12:        model.Missing(),
		RSI24:        model.Missing(),
		MACDHist:     model.Missing(),
		PrevMACDHist: model.Missing(),
		BollUpper:    model.Missing(),
		BollMid:      model.Missing(),
		BollLower:    model.Missing(),
	}
	f := calc.Evaluate(snap, nil, 0.098)
	if f != (model.QuantFlags{}) {
		t.Errorf("all-missing snapshot must leave every flag unset, got %+v", f)
	}

	if got := calc.Evaluate(nil, nil, 0.098); got != (model.QuantFlags{}) {
		t.Error("nil snapshot must evaluate to the zero flag record")
	}
}
