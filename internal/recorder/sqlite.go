package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists backtest runs and signal events to SQLite.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance (dashboards read while
	// a run writes).
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id              TEXT PRIMARY KEY,
			started_at      INTEGER NOT NULL,
			symbol          TEXT,
			source          TEXT,
			from_ts         INTEGER,
			to_ts           INTEGER,
			initial_capital REAL,
			final_capital   REAL,
			net_pnl         REAL,
			total_return    REAL,
			total_trades    INTEGER,
			winning_trades  INTEGER,
			losing_trades   INTEGER,
			win_rate        REAL,
			gross_profit    REAL,
			gross_loss      REAL,
			profit_factor   REAL,
			max_drawdown    REAL,
			sessions        INTEGER,
			skipped_signals INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON backtest_runs(started_at)`,

		`CREATE TABLE IF NOT EXISTS backtest_trades (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL,
			seq         INTEGER NOT NULL,
			direction   TEXT,
			signal      TEXT,
			entry_time  INTEGER,
			exit_time   INTEGER,
			entry       REAL,
			exit        REAL,
			quantity    REAL,
			stop        REAL,
			target      REAL,
			pnl         REAL,
			risk        REAL,
			realized_rr REAL,
			exit_reason TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_run ON backtest_trades(run_id)`,

		`CREATE TABLE IF NOT EXISTS equity_curve (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			ts     INTEGER NOT NULL,
			equity REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_equity_run ON equity_curve(run_id)`,

		`CREATE TABLE IF NOT EXISTS signal_events (
			id     INTEGER PRIMARY KEY AUTOINCREMENT,
			ts     INTEGER NOT NULL,
			symbol TEXT,
			type   TEXT,
			price  REAL,
			vwap   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signal_events(ts)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun writes the run summary, its trades and its equity curve in one
// transaction. SQLite cannot store +Inf, so an infinite profit factor is
// stored as -1.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	res := run.Result

	pf := res.ProfitFactor
	if pf > 1e308 {
		pf = -1
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO backtest_runs
		(id, started_at, symbol, source, from_ts, to_ts,
		 initial_capital, final_capital, net_pnl, total_return,
		 total_trades, winning_trades, losing_trades, win_rate,
		 gross_profit, gross_loss, profit_factor, max_drawdown,
		 sessions, skipped_signals)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		run.ID, startedAt.Unix(), run.Symbol, run.Source,
		run.From.Unix(), run.To.Unix(),
		res.InitialCapital, res.FinalCapital, res.NetPnL, res.TotalReturn,
		res.TotalTrades, res.WinningTrades, res.LosingTrades, res.WinRate,
		res.GrossProfit, res.GrossLoss, pf, res.MaxDrawdown,
		res.Sessions, res.SkippedSignals,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for i, t := range res.Trades {
		if _, err := tx.Exec(`INSERT INTO backtest_trades
			(run_id, seq, direction, signal, entry_time, exit_time,
			 entry, exit, quantity, stop, target, pnl, risk, realized_rr, exit_reason)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			run.ID, i, string(t.Direction), string(t.Signal),
			t.EntryTime.Unix(), t.ExitTime.Unix(),
			t.Entry, t.Exit, t.Quantity, t.Stop, t.Target,
			t.PnL, t.Risk, t.RealizedRR, string(t.ExitReason),
		); err != nil {
			return fmt.Errorf("insert trade %d: %w", i, err)
		}
	}

	for _, p := range res.EquityCurve {
		if _, err := tx.Exec(`INSERT INTO equity_curve (run_id, ts, equity) VALUES (?,?,?)`,
			run.ID, p.Time.Unix(), p.Equity); err != nil {
			return fmt.Errorf("insert equity point: %w", err)
		}
	}

	return tx.Commit()
}

func (r *SQLiteRecorder) RecordSignal(evt *SignalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO signal_events (ts, symbol, type, price, vwap)
		VALUES (?,?,?,?,?)`,
		evt.Time.Unix(), evt.Symbol, string(evt.Type), evt.Price, evt.VWAP,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
