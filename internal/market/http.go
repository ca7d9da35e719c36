package market

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"TradeBench/internal/model"
)

// HTTPProvider implements Provider against a REST bar service.
type HTTPProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPProvider creates a provider with optional proxy support.
func NewHTTPProvider(baseURL, apiKey, proxyURL string) *HTTPProvider {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (p *HTTPProvider) Name() string { return "http" }

// apiBar is the expected JSON shape from the bar service.
type apiBar struct {
	Timestamp int64   `json:"timestamp"`
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (p *HTTPProvider) DailyBars(symbol string, start, end time.Time) ([]model.OHLCV, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&start=%s&end=%s",
		p.BaseURL, url.QueryEscape(symbol),
		start.Format("2006-01-02"), end.Format("2006-01-02"))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if p.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch daily bars: status %d", resp.StatusCode)
	}

	var result struct {
		Bars []apiBar `json:"bars"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode bars: %w", err)
	}

	bars := make([]model.OHLCV, 0, len(result.Bars))
	for _, b := range result.Bars {
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(b.Timestamp, 0).UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}
