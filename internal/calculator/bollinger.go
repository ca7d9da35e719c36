package calculator

import (
	"errors"
	"math"
)

// CalculateBollinger computes the Bollinger bands over the given period with
// the given standard-deviation multiplier. Uses the population standard
// deviation of the last `period` prices.
func CalculateBollinger(prices []float64, period int, mult float64) (upper, mid, lower float64, err error) {
	if period <= 0 {
		return 0, 0, 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, 0, 0, errors.New("not enough data for Bollinger calculation")
	}

	window := prices[len(prices)-period:]
	sum := 0.0
	for _, p := range window {
		sum += p
	}
	mid = sum / float64(period)

	variance := 0.0
	for _, p := range window {
		d := p - mid
		variance += d * d
	}
	std := math.Sqrt(variance / float64(period))

	upper = mid + mult*std
	lower = mid - mult*std
	return upper, mid, lower, nil
}
