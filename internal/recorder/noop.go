package recorder

import (
	"time"

	"TradeBench/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) StartRun(_ string, _ []string, _ string, _ time.Time) error { return nil }
func (n *NoopRecorder) RecordTrade(_ string, _ *model.TradeRecord) error           { return nil }
func (n *NoopRecorder) RecordEquity(_, _ string, _ model.EquityPoint) error        { return nil }
func (n *NoopRecorder) FinishRun(_ string, _ *RunResult) error                     { return nil }
func (n *NoopRecorder) Close() error                                               { return nil }
