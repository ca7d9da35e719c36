// Package sim drives the day-by-day simulation: for each trading day,
// snapshot, flags, cooldown, decision, guardrails, ledger, in that order. A
// failed day is recorded and skipped; it never terminates the run and never
// leaves the account half-mutated.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"TradeBench/internal/calculator"
	"TradeBench/internal/config"
	"TradeBench/internal/cooldown"
	"TradeBench/internal/decision"
	"TradeBench/internal/guardrail"
	"TradeBench/internal/market"
	"TradeBench/internal/metrics"
	"TradeBench/internal/model"
	"TradeBench/internal/portfolio"
	"TradeBench/internal/quant"
)

// lookbackDays is the calendar padding fetched before the run start so the
// slowest indicator has a full window on day one.
const lookbackDays = 180

// Driver runs the simulation for one or more symbols.
type Driver struct {
	cfg      *config.Config
	provider market.Provider
	source   decision.Source
	calc     *quant.Calculator
	log      zerolog.Logger
}

// NewDriver wires a driver from its collaborators.
func NewDriver(cfg *config.Config, provider market.Provider, source decision.Source, log zerolog.Logger) *Driver {
	return &Driver{
		cfg:      cfg,
		provider: provider,
		source:   source,
		calc:     quant.NewCalculator(cfg),
		log:      log.With().Str("component", "sim").Logger(),
	}
}

// SymbolResult is one symbol's complete output: the full ledger, the equity
// curve, and the terminal states.
type SymbolResult struct {
	Symbol     string
	Rows       []model.TradeRecord
	Curve      []model.EquityPoint
	FailedDays int
	Portfolio  model.PortfolioState
	Cooldown   model.CooldownState
	Err        error
}

// RunSymbol simulates one symbol sequentially across the configured date
// range. Day N depends on day N-1's outcome, so there is no parallelism
// inside this loop.
func (d *Driver) RunSymbol(ctx context.Context, rawSymbol string) SymbolResult {
	res := SymbolResult{Symbol: rawSymbol}

	symbol, exchange, err := market.Normalize(rawSymbol)
	if err != nil {
		res.Err = err
		return res
	}
	res.Symbol = symbol
	log := d.log.With().Str("symbol", symbol).Logger()

	start, end := d.cfg.DateRange()
	bars, err := d.provider.DailyBars(symbol, start.AddDate(0, 0, -lookbackDays), end)
	if err != nil {
		res.Err = fmt.Errorf("load bars: %w", err)
		return res
	}
	if len(bars) == 0 {
		res.Err = fmt.Errorf("no bars for %s in range", symbol)
		return res
	}

	cal := market.NewCalendar(bars)
	fees := portfolio.NewFeeSchedule(d.cfg, exchange)
	ledger := portfolio.NewLedger(symbol, d.cfg, fees, cal)
	tracker := cooldown.NewTracker(symbol)
	engine := guardrail.NewEngine(d.cfg, log)

	limitThreshold := d.cfg.Market.LimitThreshold
	if market.IsGrowthBoard(symbol) {
		limitThreshold = d.cfg.Market.LimitThresholdGrowth
	}

	barIndex := make(map[string]int, len(bars))
	for i, b := range bars {
		barIndex[b.Time.Format("2006-01-02")] = i
	}

	for _, day := range cal.Days(start, end) {
		row, failed := d.step(ctx, stepInput{
			symbol:         symbol,
			day:            day,
			bars:           bars,
			barIndex:       barIndex,
			cal:            cal,
			ledger:         ledger,
			tracker:        tracker,
			engine:         engine,
			limitThreshold: limitThreshold,
			log:            log,
		})
		res.Rows = append(res.Rows, row)
		if failed {
			res.FailedDays++
			metrics.DaysProcessed.WithLabelValues(symbol, "failed").Inc()
		} else {
			metrics.DaysProcessed.WithLabelValues(symbol, "ok").Inc()
		}
		res.Curve = append(res.Curve, model.EquityPoint{
			Date:   day,
			Cash:   row.CashAfter,
			Equity: row.EquityAfter,
		})
		eq, _ := row.EquityAfter.Float64()
		metrics.Equity.WithLabelValues(symbol).Set(eq)
	}

	res.Portfolio = ledger.State()
	res.Cooldown = tracker.State()
	return res
}

type stepInput struct {
	symbol         string
	day            time.Time
	bars           []model.OHLCV
	barIndex       map[string]int
	cal            *market.Calendar
	ledger         *portfolio.Ledger
	tracker        *cooldown.Tracker
	engine         *guardrail.Engine
	limitThreshold float64
	log            zerolog.Logger
}

// step runs one trading day. The returned bool marks a failed day: the
// account state is guaranteed unchanged when it is true.
func (d *Driver) step(ctx context.Context, in stepInput) (model.TradeRecord, bool) {
	idx, ok := in.barIndex[in.day.Format("2006-01-02")]
	if !ok {
		return d.failedRow(in, "no bar for day"), true
	}

	snap, err := calculator.BuildSnapshot(in.symbol, in.bars[:idx+1])
	if err != nil {
		in.log.Warn().Err(err).Time("day", in.day).Msg("snapshot unavailable, skipping day")
		return d.failedRow(in, "snapshot unavailable: "+err.Error()), true
	}
	var prev *model.Snapshot
	if idx >= 1 {
		prev, _ = calculator.BuildSnapshot(in.symbol, in.bars[:idx])
	}

	flags := d.calc.Evaluate(snap, prev, in.limitThreshold)
	buyPermitted := in.tracker.BuyPermitted(in.day, flags.IsCooldownReleaseMet)

	proposal, decisionMS, decErr := d.propose(ctx, decision.Request{
		Symbol:   in.symbol,
		Date:     in.day,
		Snapshot: snap,
		Flags:    flags,
		State:    in.ledger.State(),
	})
	if decErr != nil {
		in.log.Warn().Err(decErr).Time("day", in.day).Msg("decision unavailable, holding")
		proposal = model.Proposal{Signal: model.SignalHold, Rationale: "decision unavailable"}
	}

	order := in.engine.Decide(guardrail.Input{
		Proposal:          proposal,
		Flags:             flags,
		CooldownPermitted: buyPermitted,
		SettlementOpen:    in.ledger.CanSell(in.day),
		State:             in.ledger.State(),
		Snapshot:          snap,
		Sizer:             in.ledger,
	})
	if proposal.Signal != model.SignalHold && order.Signal == model.SignalHold {
		metrics.Vetoes.WithLabelValues(in.symbol).Inc()
	}

	row, err := in.ledger.Apply(in.day, proposal.Signal, order, snap)
	row.DecisionMS = decisionMS
	if row.Note == "" {
		row.Note = proposal.Rationale
	}
	if err != nil {
		in.log.Error().Err(err).Time("day", in.day).
			Interface("order", order).Interface("state", in.ledger.State()).
			Msg("ledger rejected order")
		return row, true
	}

	if row.Executed() {
		metrics.Trades.WithLabelValues(in.symbol, string(row.Final)).Inc()
		if row.Final.IsExit() {
			in.tracker.Arm(in.cal.Add(in.day, d.cfg.Cooldown.LockoutDays))
		} else if d.cfg.Cooldown.OnExploratoryBuy && flags.IsExploratoryBuy {
			in.tracker.Arm(in.cal.Add(in.day, d.cfg.Cooldown.LockoutDays))
		}
	}
	return row, false
}

func (d *Driver) propose(ctx context.Context, req decision.Request) (model.Proposal, int64, error) {
	started := time.Now()
	prop, err := d.source.Propose(ctx, req)
	elapsed := time.Since(started)
	metrics.DecisionSeconds.WithLabelValues(d.source.Name()).Observe(elapsed.Seconds())
	return prop, elapsed.Milliseconds(), err
}

// failedRow builds the gap entry for a day that could not be processed. The
// account is untouched; with no usable price, the position is marked at cost.
func (d *Driver) failedRow(in stepInput, note string) model.TradeRecord {
	state := in.ledger.State()
	return model.TradeRecord{
		Date:        in.day,
		Symbol:      in.symbol,
		Proposed:    model.SignalHold,
		Final:       model.SignalHold,
		Success:     false,
		Note:        note,
		CashAfter:   state.Cash,
		SharesAfter: state.Shares,
		EquityAfter: state.Equity(state.AvgEntryPrice),
	}
}
