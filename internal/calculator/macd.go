package calculator

import "errors"

// MACDResult holds the three MACD series, each aligned with the input prices.
type MACDResult struct {
	DIF  []float64
	DEA  []float64
	Hist []float64
}

// CalculateMACD computes the MACD indicator with the given fast, slow and
// signal periods. The histogram uses the A-share convention of 2*(DIF-DEA).
func CalculateMACD(prices []float64, fast, slow, signal int) (*MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, errors.New("periods must be positive")
	}
	if fast >= slow {
		return nil, errors.New("fast period must be shorter than slow period")
	}
	if len(prices) == 0 {
		return nil, errors.New("no prices provided")
	}

	emaFast, err := CalculateEMASeries(prices, fast)
	if err != nil {
		return nil, err
	}
	emaSlow, err := CalculateEMASeries(prices, slow)
	if err != nil {
		return nil, err
	}

	dif := make([]float64, len(prices))
	for i := range prices {
		dif[i] = emaFast[i] - emaSlow[i]
	}
	dea, err := CalculateEMASeries(dif, signal)
	if err != nil {
		return nil, err
	}
	hist := make([]float64, len(prices))
	for i := range prices {
		hist[i] = 2 * (dif[i] - dea[i])
	}
	return &MACDResult{DIF: dif, DEA: dea, Hist: hist}, nil
}
