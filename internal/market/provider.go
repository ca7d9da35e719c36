package market

import (
	"time"

	"TradeBench/internal/model"
)

// Provider defines the interface for loading daily bar history.
// Implementations must return bars sorted ascending by date, covering at
// most [start, end]. Callers widen start to cover indicator lookback.
type Provider interface {
	DailyBars(symbol string, start, end time.Time) ([]model.OHLCV, error)
	Name() string
}
