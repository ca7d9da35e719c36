package market

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"TradeBench/internal/model"
)

// CSVProvider serves bars from one file per symbol under Dir, named
// <symbol>.csv. Files are parsed once and cached for the life of the run.
type CSVProvider struct {
	Dir string

	mu    sync.Mutex
	cache map[string][]model.OHLCV
}

// NewCSVProvider creates a provider reading from the given directory.
func NewCSVProvider(dir string) *CSVProvider {
	return &CSVProvider{Dir: dir, cache: make(map[string][]model.OHLCV)}
}

func (p *CSVProvider) Name() string { return "csv" }

func (p *CSVProvider) DailyBars(symbol string, start, end time.Time) ([]model.OHLCV, error) {
	bars, err := p.load(symbol)
	if err != nil {
		return nil, err
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

func (p *CSVProvider) load(symbol string) ([]model.OHLCV, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if bars, ok := p.cache[symbol]; ok {
		return bars, nil
	}

	path := filepath.Join(p.Dir, symbol+".csv")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open bars file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s: no data rows", path)
	}

	// Header names vary across export tools, so resolve columns by name.
	col := map[string]int{}
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	dateIdx, ok := findColumn(col, "date", "time", "timestamp", "trade_date")
	if !ok {
		return nil, fmt.Errorf("%s: no date column", path)
	}
	openIdx, _ := findColumn(col, "open")
	highIdx, _ := findColumn(col, "high")
	lowIdx, _ := findColumn(col, "low")
	closeIdx, ok := findColumn(col, "close", "adj close", "adj_close")
	if !ok {
		return nil, fmt.Errorf("%s: no close column", path)
	}
	volIdx, hasVol := findColumn(col, "volume", "vol")

	bars := make([]model.OHLCV, 0, len(records)-1)
	for _, rec := range records[1:] {
		t, err := parseDate(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		closeV, err := strconv.ParseFloat(strings.TrimSpace(rec[closeIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("%s: bad close on %s: %w", path, rec[dateIdx], err)
		}
		bar := model.OHLCV{Time: t, Open: closeV, High: closeV, Low: closeV, Close: closeV}
		if openIdx >= 0 {
			bar.Open = parseFloatOr(rec[openIdx], closeV)
		}
		if highIdx >= 0 {
			bar.High = parseFloatOr(rec[highIdx], closeV)
		}
		if lowIdx >= 0 {
			bar.Low = parseFloatOr(rec[lowIdx], closeV)
		}
		if hasVol {
			bar.Volume = parseFloatOr(rec[volIdx], 0)
		}
		bars = append(bars, bar)
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })

	p.cache[symbol] = bars
	return bars, nil
}

func findColumn(col map[string]int, names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := col[n]; ok {
			return i, true
		}
	}
	return -1, false
}

func parseFloatOr(s string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006/01/02", "20060102", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
