package sim

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"TradeBench/internal/cooldown"
	"TradeBench/internal/model"
	"TradeBench/internal/portfolio"
	"TradeBench/internal/recorder"
)

// RunOutput is the batch result for all configured symbols.
type RunOutput struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Results    []SymbolResult
}

// Run simulates every configured symbol and streams the output to the
// recorder. Symbols share no state, so each runs on its own goroutine;
// result order matches the configured symbol order.
func (d *Driver) Run(ctx context.Context, rec recorder.Recorder) (*RunOutput, error) {
	out := &RunOutput{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		Results:   make([]SymbolResult, len(d.cfg.Run.Symbols)),
	}
	initialCash := decimal.NewFromFloat(d.cfg.Run.InitialCash)
	if err := rec.StartRun(out.RunID, d.cfg.Run.Symbols, initialCash.String(), out.StartedAt); err != nil {
		return nil, err
	}
	d.log.Info().Str("run_id", out.RunID).Strs("symbols", d.cfg.Run.Symbols).Msg("run started")

	var wg sync.WaitGroup
	for i, sym := range d.cfg.Run.Symbols {
		wg.Add(1)
		go func(i int, sym string) {
			defer wg.Done()
			out.Results[i] = d.RunSymbol(ctx, sym)
		}(i, sym)
	}
	wg.Wait()
	out.FinishedAt = time.Now()

	for _, res := range out.Results {
		if res.Err != nil {
			d.log.Error().Err(res.Err).Str("symbol", res.Symbol).Msg("symbol run failed")
			continue
		}
		for i := range res.Rows {
			if err := rec.RecordTrade(out.RunID, &res.Rows[i]); err != nil {
				return nil, err
			}
		}
		for _, pt := range res.Curve {
			if err := rec.RecordEquity(out.RunID, res.Symbol, pt); err != nil {
				return nil, err
			}
		}
	}

	if err := d.saveStates(out); err != nil {
		d.log.Warn().Err(err).Msg("state persistence failed")
	}
	return out, nil
}

// saveStates writes the terminal portfolio and cooldown states to the state
// directory, one file each, keyed by symbol. This is the only persistence
// point; nothing touches these files mid-run.
func (d *Driver) saveStates(out *RunOutput) error {
	if d.cfg.State.Dir == "" {
		return nil
	}
	portfolios := map[string]model.PortfolioState{}
	cooldowns := map[string]model.CooldownState{}
	for _, res := range out.Results {
		if res.Err != nil {
			continue
		}
		portfolios[res.Symbol] = res.Portfolio
		cooldowns[res.Symbol] = res.Cooldown
	}
	if err := portfolio.SaveState(filepath.Join(d.cfg.State.Dir, "portfolio.json"), portfolios); err != nil {
		return err
	}
	return cooldown.SaveState(filepath.Join(d.cfg.State.Dir, "cooldown.json"), cooldowns)
}
