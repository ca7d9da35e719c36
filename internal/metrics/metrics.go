// Package metrics exposes the engine's Prometheus metrics:
//   - sim_days_processed_total{symbol,status}: day steps by outcome (ok|failed)
//   - sim_trades_total{symbol,signal}: executed trades by final signal
//   - sim_vetoes_total{symbol}: proposals vetoed to hold
//   - sim_equity{symbol}: latest marked equity
//   - sim_decision_seconds{source}: decision source latency
//
// Registered in init() and served at /metrics by the live runner.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	DaysProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_days_processed_total",
			Help: "Trading day steps processed, by outcome",
		},
		[]string{"symbol", "status"},
	)

	Trades = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_trades_total",
			Help: "Executed trades by final signal",
		},
		[]string{"symbol", "signal"},
	)

	Vetoes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_vetoes_total",
			Help: "Proposals vetoed or downgraded to hold",
		},
		[]string{"symbol"},
	)

	Equity = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sim_equity",
			Help: "Latest marked equity per symbol",
		},
		[]string{"symbol"},
	)

	DecisionSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sim_decision_seconds",
			Help:    "Decision source latency in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		},
		[]string{"source"},
	)
)

func init() {
	prometheus.MustRegister(DaysProcessed, Trades, Vetoes, Equity, DecisionSeconds)
}
