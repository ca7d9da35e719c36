package market

import (
	"time"

	"TradeBench/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	BasePrice float64
	Bars      []model.OHLCV
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) DailyBars(_ string, start, end time.Time) ([]model.OHLCV, error) {
	bars := m.Bars
	if bars == nil {
		bars = GenerateBars(m.BasePrice, start, end)
	}
	out := make([]model.OHLCV, 0, len(bars))
	for _, b := range bars {
		if b.Time.Before(start) || b.Time.After(end) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// GenerateBars builds a deterministic weekday bar series with a gentle
// upward drift, one bar per weekday in [start, end].
func GenerateBars(basePrice float64, start, end time.Time) []model.OHLCV {
	var bars []model.OHLCV
	i := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.001)
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
		i++
	}
	return bars
}
