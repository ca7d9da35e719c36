package model

import (
	"math"
	"time"
)

// OHLCV represents a single daily bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Snapshot is one (symbol, trading day) market row: the raw bar plus the
// technical factors the flag calculator consumes. Optional factors that the
// data source could not supply are NaN; use Has to test for presence.
type Snapshot struct {
	Symbol string
	Date   time.Time

	Open      float64
	High      float64
	Low       float64
	Close     float64
	PrevClose float64
	Volume    float64
	PctChange float64 // percent vs previous close

	MA5   float64
	MA10  float64
	MA20  float64
	EMA20 float64

	RSI6  float64
	RSI12 float64
	RSI24 float64

	MACDDIF  float64
	MACDDEA  float64
	MACDHist float64
	// PrevMACDHist carries yesterday's histogram so momentum predicates can
	// see the slope without a second snapshot fetch.
	PrevMACDHist float64

	BollUpper float64
	BollMid   float64
	BollLower float64

	KDJK float64
	KDJD float64
	KDJJ float64
}

// Has reports whether an optional factor value is present.
func Has(v float64) bool { return !math.IsNaN(v) }

// Missing is the canonical "factor not available" value.
func Missing() float64 { return math.NaN() }
