// Package live runs the engine day-ahead: a cron task after each session
// close replays the configured range up to today, so the day's decision is
// ready before the next open. A metrics endpoint serves Prometheus.
package live

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"TradeBench/internal/config"
	"TradeBench/internal/recorder"
	"TradeBench/internal/report"
	"TradeBench/internal/sim"
)

// Runner manages the cron task and the metrics server.
type Runner struct {
	cfg    *config.Config
	driver *sim.Driver
	rec    recorder.Recorder
	cron   *cron.Cron
	srv    *http.Server
	log    zerolog.Logger
}

// NewRunner creates a live runner.
func NewRunner(cfg *config.Config, driver *sim.Driver, rec recorder.Recorder, log zerolog.Logger) *Runner {
	return &Runner{
		cfg:    cfg,
		driver: driver,
		rec:    rec,
		cron:   cron.New(cron.WithSeconds()),
		log:    log.With().Str("component", "live").Logger(),
	}
}

// Start registers the daily task and serves metrics until ctx is done.
func (r *Runner) Start(ctx context.Context) error {
	if _, err := r.cron.AddFunc(r.cfg.Live.DailyCron, func() { r.runOnce(ctx) }); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	r.cron.Start()
	r.log.Info().Str("cron", r.cfg.Live.DailyCron).Msg("daily task registered")

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	r.srv = &http.Server{Addr: r.cfg.Live.MetricsAddr, Handler: mux}
	go func() {
		if err := r.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			r.log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	r.log.Info().Str("addr", r.cfg.Live.MetricsAddr).Msg("metrics server started")

	<-ctx.Done()
	return r.Stop()
}

// Stop shuts down the cron and the metrics server gracefully.
func (r *Runner) Stop() error {
	r.cron.Stop()
	if r.srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	r.log.Info().Msg("live runner stopped")
	return nil
}

// RunNow executes the daily task immediately, for manual triggers.
func (r *Runner) RunNow(ctx context.Context) { r.runOnce(ctx) }

func (r *Runner) runOnce(ctx context.Context) {
	out, err := r.driver.Run(ctx, r.rec)
	if err != nil {
		r.log.Error().Err(err).Msg("daily run failed")
		return
	}
	sum := report.Summarize(out)
	if err := r.rec.FinishRun(out.RunID, report.ToRecorderResult(sum)); err != nil {
		r.log.Error().Err(err).Str("run_id", out.RunID).Msg("finish run failed")
	}
	r.log.Info().Str("run_id", out.RunID).
		Str("final_equity", sum.FinalEquity.StringFixed(2)).
		Int("trades", sum.TradeCount).
		Msg("daily run complete")
}
