package decision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"TradeBench/internal/config"
	"TradeBench/internal/model"
)

// HTTPSource queries an external decision service over REST. Transient
// failures are retried with exponential backoff; a still-failing day is the
// caller's problem and resolves to a hold.
type HTTPSource struct {
	URL        string
	APIKey     string
	Model      string
	MaxRetries int
	Client     *http.Client
}

// NewHTTPSource creates a source from the run configuration.
func NewHTTPSource(cfg *config.Config) *HTTPSource {
	return &HTTPSource{
		URL:        cfg.Decision.URL,
		APIKey:     cfg.Decision.APIKey,
		Model:      cfg.Decision.Model,
		MaxRetries: cfg.Decision.MaxRetries,
		Client: &http.Client{
			Timeout: time.Duration(cfg.Decision.TimeoutSec) * time.Second,
		},
	}
}

func (s *HTTPSource) Name() string { return "http" }

type proposeRequest struct {
	Symbol string `json:"symbol"`
	Date   string `json:"date"`
	Model  string `json:"model,omitempty"`
	// Snapshot carries only the factors the data source supplied; NaN
	// placeholders are not representable in JSON and are omitted.
	Snapshot map[string]float64 `json:"snapshot"`
	Flags    model.QuantFlags   `json:"flags"`
	State    struct {
		Cash          string `json:"cash"`
		Shares        int64  `json:"shares"`
		AvgEntryPrice string `json:"avg_entry_price"`
	} `json:"portfolio"`
}

type proposeResponse struct {
	Signal     string  `json:"signal"`
	Quantity   int64   `json:"quantity"`
	Rationale  string  `json:"rationale"`
	Confidence float64 `json:"confidence"`
}

func (s *HTTPSource) Propose(ctx context.Context, req Request) (model.Proposal, error) {
	body := proposeRequest{
		Symbol:   req.Symbol,
		Date:     req.Date.Format("2006-01-02"),
		Model:    s.Model,
		Snapshot: snapshotFields(req.Snapshot),
		Flags:    req.Flags,
	}
	body.State.Cash = req.State.Cash.String()
	body.State.Shares = req.State.Shares
	body.State.AvgEntryPrice = req.State.AvgEntryPrice.String()

	payload, err := json.Marshal(body)
	if err != nil {
		return model.Proposal{}, fmt.Errorf("encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<uint(attempt-1)) * time.Second
			select {
			case <-ctx.Done():
				return model.Proposal{}, ctx.Err()
			case <-time.After(backoff):
			}
		}
		prop, err := s.proposeOnce(ctx, payload)
		if err == nil {
			return prop, nil
		}
		lastErr = err
	}
	return model.Proposal{}, fmt.Errorf("decision source exhausted %d retries: %w", s.MaxRetries, lastErr)
}

func (s *HTTPSource) proposeOnce(ctx context.Context, payload []byte) (model.Proposal, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return model.Proposal{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.APIKey)
	}

	resp, err := s.Client.Do(httpReq)
	if err != nil {
		return model.Proposal{}, fmt.Errorf("call decision service: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return model.Proposal{}, fmt.Errorf("decision service: status %d", resp.StatusCode)
	}

	var out proposeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return model.Proposal{}, fmt.Errorf("decode response: %w", err)
	}
	sig := model.Signal(out.Signal)
	if !sig.Valid() {
		return model.Proposal{}, fmt.Errorf("decision service returned unknown signal %q", out.Signal)
	}
	return model.Proposal{
		Signal:     sig,
		Quantity:   out.Quantity,
		Rationale:  out.Rationale,
		Confidence: out.Confidence,
	}, nil
}

func snapshotFields(snap *model.Snapshot) map[string]float64 {
	if snap == nil {
		return nil
	}
	fields := map[string]float64{
		"open":   snap.Open,
		"high":   snap.High,
		"low":    snap.Low,
		"close":  snap.Close,
		"volume": snap.Volume,
	}
	optional := map[string]float64{
		"prev_close": snap.PrevClose,
		"pct_change": snap.PctChange,
		"ma5":        snap.MA5,
		"ma10":       snap.MA10,
		"ma20":       snap.MA20,
		"ema20":      snap.EMA20,
		"rsi6":       snap.RSI6,
		"rsi12":      snap.RSI12,
		"rsi24":      snap.RSI24,
		"macd_dif":   snap.MACDDIF,
		"macd_dea":   snap.MACDDEA,
		"macd_hist":  snap.MACDHist,
		"boll_upper": snap.BollUpper,
		"boll_mid":   snap.BollMid,
		"boll_lower": snap.BollLower,
		"kdj_k":      snap.KDJK,
		"kdj_d":      snap.KDJD,
		"kdj_j":      snap.KDJJ,
	}
	for k, v := range optional {
		if model.Has(v) {
			fields[k] = v
		}
	}
	return fields
}
