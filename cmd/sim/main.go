package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"TradeBench/internal/config"
	"TradeBench/internal/decision"
	"TradeBench/internal/live"
	"TradeBench/internal/logger"
	"TradeBench/internal/market"
	"TradeBench/internal/recorder"
	"TradeBench/internal/report"
	"TradeBench/internal/sim"
)

func main() {
	// Optional .env for local development; a missing file is fine.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	log.Info().Str("mode", cfg.Run.Mode).Strs("symbols", cfg.Run.Symbols).Msg("TradeBench starting")

	// Market data
	var provider market.Provider
	if cfg.Data.CSVDir != "" {
		provider = market.NewCSVProvider(cfg.Data.CSVDir)
	} else {
		provider = market.NewHTTPProvider(cfg.Data.BaseURL, cfg.Data.APIKey, cfg.Data.Proxy)
	}
	log.Info().Str("provider", provider.Name()).Msg("market data source ready")

	// Decision source
	var source decision.Source
	if cfg.Decision.Source == "http" {
		source = decision.NewHTTPSource(cfg)
	} else {
		source = decision.RuleSource{}
	}
	log.Info().Str("source", source.Name()).Msg("decision source ready")

	// Recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("sqlite recorder unavailable, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
			log.Info().Str("path", cfg.Database.SQLitePath).Msg("sqlite recorder opened")
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	driver := sim.NewDriver(cfg, provider, source, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Run.Mode == "live" {
		runner := live.NewRunner(cfg, driver, rec, log)
		if err := runner.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("live runner failed")
		}
		return
	}

	out, err := driver.Run(ctx, rec)
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}
	sum := report.Summarize(out)
	if err := rec.FinishRun(out.RunID, report.ToRecorderResult(sum)); err != nil {
		log.Error().Err(err).Msg("finish run failed")
	}
	if cfg.Database.CSVPath != "" {
		if err := report.ExportTradesCSV(cfg.Database.CSVPath, out); err != nil {
			log.Error().Err(err).Msg("csv export failed")
		} else {
			log.Info().Str("path", cfg.Database.CSVPath).Msg("ledger exported")
		}
	}

	fmt.Print(report.Format(sum))

	for _, res := range out.Results {
		if res.Err != nil {
			log.Error().Err(res.Err).Str("symbol", res.Symbol).Msg("symbol failed")
			os.Exit(1)
		}
	}
}
