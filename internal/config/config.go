package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all run configuration. Field defaults come from the
// `default` tags; a YAML file and then environment variables override them.
type Config struct {
	Run struct {
		Symbols     []string `yaml:"symbols" validate:"required,min=1"`
		StartDate   string   `yaml:"start_date" validate:"required"`
		EndDate     string   `yaml:"end_date" validate:"required"`
		InitialCash float64  `yaml:"initial_cash" default:"100000" validate:"gt=0"`
		Mode        string   `yaml:"mode" default:"backtest" validate:"oneof=backtest live"`
	} `yaml:"run"`

	Market struct {
		LotSize              int64   `yaml:"lot_size" default:"100" validate:"gt=0"`
		SettlementOffsetDays int     `yaml:"settlement_offset_days" default:"1" validate:"gte=0"`
		CommissionRate       float64 `yaml:"commission_rate" default:"0.0003" validate:"gte=0,lt=1"`
		StampDutyRate        float64 `yaml:"stamp_duty_rate" default:"0.0005" validate:"gte=0,lt=1"`
		TransferFeeRate      float64 `yaml:"transfer_fee_rate" default:"0.00001" validate:"gte=0,lt=1"`
		SlippageRate         float64 `yaml:"slippage_rate" default:"0" validate:"gte=0,lt=1"`
		// Limit-move thresholds as fractional daily change; zero disables the veto.
		LimitThreshold       float64 `yaml:"limit_threshold" default:"0.098" validate:"gte=0,lt=1"`
		LimitThresholdGrowth float64 `yaml:"limit_threshold_growth" default:"0.195" validate:"gte=0,lt=1"`
	} `yaml:"market"`

	Flags struct {
		SuperTrendRSI     float64 `yaml:"super_trend_rsi" default:"65" validate:"gte=0,lte=100"`
		ExtremeRSI        float64 `yaml:"extreme_rsi" default:"85" validate:"gte=0,lte=100"`
		ExtremeBollRatio  float64 `yaml:"extreme_boll_ratio" default:"1.02" validate:"gte=1"`
		OversoldRSI       float64 `yaml:"oversold_rsi" default:"30" validate:"gte=0,lte=100"`
		MeanRevBollRatio  float64 `yaml:"mean_rev_boll_ratio" default:"1.01" validate:"gte=1"`
		MomentumRSILow    float64 `yaml:"momentum_rsi_low" default:"50" validate:"gte=0,lte=100"`
		MomentumRSIHigh   float64 `yaml:"momentum_rsi_high" default:"80" validate:"gte=0,lte=100"`
		TrendBuyRSI       float64 `yaml:"trend_buy_rsi" default:"55" validate:"gte=0,lte=100"`
		ExploratoryRSI    float64 `yaml:"exploratory_rsi" default:"50" validate:"gte=0,lte=100"`
		ReleaseRSI        float64 `yaml:"release_rsi" default:"40" validate:"gte=0,lte=100"`
		ReleaseEMABandPct float64 `yaml:"release_ema_band_pct" default:"0.015" validate:"gte=0,lt=1"`
	} `yaml:"flags"`

	Cooldown struct {
		LockoutDays      int  `yaml:"lockout_days" default:"3" validate:"gte=0"`
		OnExploratoryBuy bool `yaml:"on_exploratory_buy"`
	} `yaml:"cooldown"`

	Guardrail struct {
		PyramidProfitPct    float64 `yaml:"pyramid_profit_pct" default:"0.05" validate:"gte=0"`
		PyramidCapFraction  float64 `yaml:"pyramid_cap_fraction" default:"0.5" validate:"gte=0,lte=1"`
		MaxPositionFraction float64 `yaml:"max_position_fraction" default:"1.0" validate:"gt=0,lte=1"`
	} `yaml:"guardrail"`

	Data struct {
		CSVDir  string `yaml:"csv_dir"`
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Proxy   string `yaml:"proxy"`
	} `yaml:"data"`

	Decision struct {
		Source     string `yaml:"source" default:"rule" validate:"oneof=rule http"`
		URL        string `yaml:"url"`
		APIKey     string `yaml:"api_key"`
		Model      string `yaml:"model"`
		TimeoutSec int    `yaml:"timeout_sec" default:"60" validate:"gt=0"`
		MaxRetries int    `yaml:"max_retries" default:"3" validate:"gte=0"`
	} `yaml:"decision"`

	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
		CSVPath    string `yaml:"csv_path"`
	} `yaml:"database"`

	State struct {
		Dir string `yaml:"dir" default:"data/state"`
	} `yaml:"state"`

	Log struct {
		Level  string `yaml:"level" default:"info" validate:"oneof=trace debug info warn error"`
		Format string `yaml:"format" default:"console" validate:"oneof=console json"`
	} `yaml:"log"`

	Live struct {
		DailyCron   string `yaml:"daily_cron" default:"0 0 16 * * 1-5"`
		MetricsAddr string `yaml:"metrics_addr" default:":9091"`
	} `yaml:"live"`
}

// Load builds a Config from defaults, an optional YAML file, and environment
// variable overrides, then validates it. Any error here is fatal to the run:
// no trading day may be processed under a bad configuration.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TRADEBENCH_SYMBOLS"); v != "" {
		cfg.Run.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("TRADEBENCH_START_DATE"); v != "" {
		cfg.Run.StartDate = v
	}
	if v := os.Getenv("TRADEBENCH_END_DATE"); v != "" {
		cfg.Run.EndDate = v
	}
	if v := os.Getenv("TRADEBENCH_INITIAL_CASH"); v != "" {
		if cash, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Run.InitialCash = cash
		}
	}
	if v := os.Getenv("MARKET_DATA_BASE_URL"); v != "" {
		cfg.Data.BaseURL = v
	}
	if v := os.Getenv("MARKET_DATA_API_KEY"); v != "" {
		cfg.Data.APIKey = v
	}
	if v := os.Getenv("DECISION_API_URL"); v != "" {
		cfg.Decision.URL = v
	}
	if v := os.Getenv("DECISION_API_KEY"); v != "" {
		cfg.Decision.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Data.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
}

// Validate runs tag validation plus the cross-field checks tags cannot
// express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	start, err := time.Parse("2006-01-02", c.Run.StartDate)
	if err != nil {
		return fmt.Errorf("run.start_date: %w", err)
	}
	end, err := time.Parse("2006-01-02", c.Run.EndDate)
	if err != nil {
		return fmt.Errorf("run.end_date: %w", err)
	}
	if end.Before(start) {
		return fmt.Errorf("run.end_date %s precedes run.start_date %s", c.Run.EndDate, c.Run.StartDate)
	}

	totalSellRate := c.Market.CommissionRate + c.Market.StampDutyRate + c.Market.TransferFeeRate
	if totalSellRate >= 1 {
		return fmt.Errorf("combined sell-side fee rates must be below 1, got %v", totalSellRate)
	}
	if c.Flags.ExtremeRSI <= c.Flags.SuperTrendRSI {
		return fmt.Errorf("flags.extreme_rsi (%v) must exceed flags.super_trend_rsi (%v): the trend exemption needs a stricter bar than the trend itself",
			c.Flags.ExtremeRSI, c.Flags.SuperTrendRSI)
	}
	if c.Flags.MomentumRSIHigh <= c.Flags.MomentumRSILow {
		return fmt.Errorf("flags.momentum_rsi_high must exceed flags.momentum_rsi_low")
	}
	if c.Decision.Source == "http" && c.Decision.URL == "" {
		return fmt.Errorf("decision.url is required when decision.source is http")
	}
	if c.Data.CSVDir == "" && c.Data.BaseURL == "" {
		return fmt.Errorf("either data.csv_dir or data.base_url is required")
	}
	return nil
}

// DateRange returns the parsed start and end dates. Validate must have
// succeeded first.
func (c *Config) DateRange() (time.Time, time.Time) {
	start, _ := time.Parse("2006-01-02", c.Run.StartDate)
	end, _ := time.Parse("2006-01-02", c.Run.EndDate)
	return start, end
}
