package calculator

import (
	"errors"

	"TradeBench/internal/model"
)

// BuildSnapshot computes the full indicator snapshot for the last bar of the
// given history. Indicators whose lookback exceeds the available history are
// left as missing rather than failing the snapshot.
func BuildSnapshot(symbol string, bars []model.OHLCV) (*model.Snapshot, error) {
	if len(bars) == 0 {
		return nil, errors.New("no bars provided")
	}

	last := bars[len(bars)-1]
	closes := extractCloses(bars)

	snap := &model.Snapshot{
		Symbol:    symbol,
		Date:      last.Time,
		Open:      last.Open,
		High:      last.High,
		Low:       last.Low,
		Close:     last.Close,
		PrevClose: model.Missing(),
		Volume:    last.Volume,
		PctChange: model.Missing(),

		MA5:   model.Missing(),
		MA10:  model.Missing(),
		MA20:  model.Missing(),
		EMA20: model.Missing(),

		RSI6:  model.Missing(),
		RSI12: model.Missing(),
		RSI24: model.Missing(),

		MACDDIF:      model.Missing(),
		MACDDEA:      model.Missing(),
		MACDHist:     model.Missing(),
		PrevMACDHist: model.Missing(),

		BollUpper: model.Missing(),
		BollMid:   model.Missing(),
		BollLower: model.Missing(),

		KDJK: model.Missing(),
		KDJD: model.Missing(),
		KDJJ: model.Missing(),
	}

	if len(bars) >= 2 {
		snap.PrevClose = bars[len(bars)-2].Close
		if snap.PrevClose > 0 {
			snap.PctChange = (last.Close - snap.PrevClose) / snap.PrevClose
		}
	}

	if v, err := CalculateSMA(closes, 5); err == nil {
		snap.MA5 = v
	}
	if v, err := CalculateSMA(closes, 10); err == nil {
		snap.MA10 = v
	}
	if v, err := CalculateSMA(closes, 20); err == nil {
		snap.MA20 = v
	}
	if v, err := CalculateEMA(closes, 20); err == nil {
		snap.EMA20 = v
	}

	if v, err := CalculateRSI(closes, 6); err == nil {
		snap.RSI6 = v
	}
	if v, err := CalculateRSI(closes, 12); err == nil {
		snap.RSI12 = v
	}
	if v, err := CalculateRSI(closes, 24); err == nil {
		snap.RSI24 = v
	}

	if macd, err := CalculateMACD(closes, 12, 26, 9); err == nil {
		n := len(macd.Hist)
		snap.MACDDIF = macd.DIF[n-1]
		snap.MACDDEA = macd.DEA[n-1]
		snap.MACDHist = macd.Hist[n-1]
		if n >= 2 {
			snap.PrevMACDHist = macd.Hist[n-2]
		}
	}

	if upper, mid, lower, err := CalculateBollinger(closes, 20, 2.0); err == nil {
		snap.BollUpper = upper
		snap.BollMid = mid
		snap.BollLower = lower
	}

	if k, d, j, err := CalculateKDJ(bars, 9); err == nil {
		snap.KDJK = k
		snap.KDJD = d
		snap.KDJJ = j
	}

	return snap, nil
}
