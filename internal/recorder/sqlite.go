package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"TradeBench/internal/model"
)

// SQLiteRecorder persists runs, trades and equity curves to a SQLite
// database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reporting tools can read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			run_id        TEXT PRIMARY KEY,
			started_at    INTEGER NOT NULL,
			finished_at   INTEGER,
			symbols       TEXT,
			initial_cash  TEXT,
			final_equity  TEXT,
			realized_pnl  TEXT,
			fees_total    TEXT,
			win_rate      REAL,
			profit_factor REAL,
			max_drawdown  REAL,
			trade_count   INTEGER,
			failed_days   INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS trades (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL,
			date            TEXT NOT NULL,
			symbol          TEXT NOT NULL,
			price           TEXT,
			proposed        TEXT,
			final           TEXT,
			quantity        INTEGER,
			effective_price TEXT,
			success         INTEGER,
			note            TEXT,
			fees            TEXT,
			realized_pnl    TEXT,
			cash_after      TEXT,
			shares_after    INTEGER,
			equity_after    TEXT,
			decision_ms     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, symbol, date)`,

		`CREATE TABLE IF NOT EXISTS equity_curve (
			id      INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id  TEXT NOT NULL,
			symbol  TEXT NOT NULL,
			date    TEXT NOT NULL,
			cash    TEXT,
			equity  TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_equity_run ON equity_curve(run_id, symbol, date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) StartRun(runID string, symbols []string, initialCash string, startedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO runs (run_id, started_at, symbols, initial_cash)
		VALUES (?,?,?,?)`,
		runID, startedAt.Unix(), strings.Join(symbols, ","), initialCash,
	)
	return err
}

func (r *SQLiteRecorder) RecordTrade(runID string, row *model.TradeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	success := 0
	if row.Success {
		success = 1
	}
	_, err := r.db.Exec(`INSERT INTO trades
		(run_id, date, symbol, price, proposed, final, quantity, effective_price,
		 success, note, fees, realized_pnl, cash_after, shares_after, equity_after, decision_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		runID, row.Date.Format("2006-01-02"), row.Symbol, row.Price.String(),
		string(row.Proposed), string(row.Final), row.Quantity, row.EffectivePrice.String(),
		success, row.Note, row.Fees.String(), row.RealizedPnL.String(),
		row.CashAfter.String(), row.SharesAfter, row.EquityAfter.String(), row.DecisionMS,
	)
	return err
}

func (r *SQLiteRecorder) RecordEquity(runID, symbol string, pt model.EquityPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO equity_curve (run_id, symbol, date, cash, equity)
		VALUES (?,?,?,?,?)`,
		runID, symbol, pt.Date.Format("2006-01-02"), pt.Cash.String(), pt.Equity.String(),
	)
	return err
}

func (r *SQLiteRecorder) FinishRun(runID string, res *RunResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`UPDATE runs SET
		finished_at=?, final_equity=?, realized_pnl=?, fees_total=?,
		win_rate=?, profit_factor=?, max_drawdown=?, trade_count=?, failed_days=?
		WHERE run_id=?`,
		time.Now().Unix(), res.FinalEquity, res.RealizedPnL, res.FeesTotal,
		res.WinRate, res.ProfitFactor, res.MaxDrawdown, res.TradeCount, res.FailedDays,
		runID,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
