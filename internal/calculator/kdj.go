package calculator

import (
	"errors"

	"TradeBench/internal/model"
)

// CalculateKDJ computes the stochastic KDJ indicator over the given RSV
// period with 1/3 smoothing. Returns the latest K, D and J values.
func CalculateKDJ(bars []model.OHLCV, period int) (k, d, j float64, err error) {
	if period <= 0 {
		return 0, 0, 0, errors.New("period must be positive")
	}
	if len(bars) == 0 {
		return 0, 0, 0, errors.New("no bars provided")
	}

	k, d = 50.0, 50.0
	for i := range bars {
		start := i - period + 1
		if start < 0 {
			start = 0
		}
		high, low := bars[start].High, bars[start].Low
		for _, b := range bars[start+1 : i+1] {
			if b.High > high {
				high = b.High
			}
			if b.Low < low {
				low = b.Low
			}
		}
		rsv := 50.0
		if high > low {
			rsv = (bars[i].Close - low) / (high - low) * 100
		}
		k = (2*k + rsv) / 3
		d = (2*d + k) / 3
	}
	j = 3*k - 2*d
	return k, d, j, nil
}
