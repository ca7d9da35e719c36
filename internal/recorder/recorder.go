package recorder

import (
	"time"

	"TradeBench/internal/model"
)

// RunResult holds the aggregates written back to the runs table when a run
// finishes.
type RunResult struct {
	FinalEquity  string
	RealizedPnL  string
	FeesTotal    string
	WinRate      float64
	ProfitFactor float64
	MaxDrawdown  float64
	TradeCount   int
	FailedDays   int
}

// Recorder persists run output for analysis.
type Recorder interface {
	StartRun(runID string, symbols []string, initialCash string, startedAt time.Time) error
	RecordTrade(runID string, row *model.TradeRecord) error
	RecordEquity(runID, symbol string, pt model.EquityPoint) error
	FinishRun(runID string, res *RunResult) error
	Close() error
}
