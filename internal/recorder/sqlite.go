package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"AlphaMind/internal/model"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
	now func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log zerolog.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log, now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS forecast_runs (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp        INTEGER NOT NULL,
			symbol           TEXT NOT NULL,
			success          INTEGER NOT NULL,
			error_kind       TEXT,
			error            TEXT,
			current_price    REAL,
			predicted_price  REAL,
			prediction_date  TEXT,
			accuracy         REAL,
			horizon          INTEGER,
			training_samples INTEGER,
			test_samples     INTEGER,
			features_count   INTEGER,
			sequence_length  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol_ts ON forecast_runs(symbol, timestamp)`,

		`CREATE TABLE IF NOT EXISTS forecast_points (
			run_id INTEGER NOT NULL REFERENCES forecast_runs(id),
			step   INTEGER NOT NULL,
			date   TEXT NOT NULL,
			price  REAL NOT NULL,
			PRIMARY KEY (run_id, step)
		)`,

		`CREATE TABLE IF NOT EXISTS forecast_features (
			run_id   INTEGER NOT NULL REFERENCES forecast_runs(id),
			rank     INTEGER NOT NULL,
			name     TEXT NOT NULL,
			variance REAL NOT NULL,
			PRIMARY KEY (run_id, rank)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(rep *model.Report) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	predicted, _ := rep.PredictedPrice()
	var predDate string
	if d, ok := rep.PredictionDate(); ok {
		predDate = d.Format(model.DateLayout)
	}
	m := rep.Metrics()
	prices := rep.PredictedPrices()
	dates := rep.PredictionDates()

	tx, err := r.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO forecast_runs
		(timestamp, symbol, success, current_price, predicted_price, prediction_date, accuracy,
		 horizon, training_samples, test_samples, features_count, sequence_length)
		VALUES (?,?,1,?,?,?,?,?,?,?,?,?)`,
		r.now().Unix(), rep.Ticker(), rep.CurrentPrice(), predicted, predDate, rep.Accuracy(),
		len(prices), m.TrainingSamples, m.TestSamples, m.FeaturesCount, m.SequenceLength,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, p := range prices {
		if _, err := tx.Exec(`INSERT INTO forecast_points (run_id, step, date, price) VALUES (?,?,?,?)`,
			id, i+1, dates[i].Format(model.DateLayout), p); err != nil {
			return 0, fmt.Errorf("insert point %d: %w", i+1, err)
		}
	}
	for i, f := range rep.TopFeatures() {
		if _, err := tx.Exec(`INSERT INTO forecast_features (run_id, rank, name, variance) VALUES (?,?,?,?)`,
			id, i+1, f.Name, f.Variance); err != nil {
			return 0, fmt.Errorf("insert feature %s: %w", f.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

func (r *SQLiteRecorder) RecordFailure(symbol, kind string, runErr error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msg := ""
	if runErr != nil {
		msg = runErr.Error()
	}
	_, err := r.db.Exec(`INSERT INTO forecast_runs (timestamp, symbol, success, error_kind, error)
		VALUES (?,?,0,?,?)`,
		r.now().Unix(), symbol, kind, msg,
	)
	return err
}

func (r *SQLiteRecorder) RecentRuns(symbol string, limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, symbol, success,
			COALESCE(error_kind, ''), COALESCE(current_price, 0), COALESCE(predicted_price, 0),
			COALESCE(prediction_date, ''), COALESCE(accuracy, 0), COALESCE(horizon, 0)
		FROM forecast_runs WHERE symbol = ? ORDER BY timestamp DESC, id DESC LIMIT ?`, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var (
			s  RunSummary
			ts int64
		)
		if err := rows.Scan(&s.ID, &ts, &s.Symbol, &s.Success, &s.ErrorKind, &s.CurrentPrice,
			&s.PredictedPrice, &s.PredictionDate, &s.Accuracy, &s.Horizon); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.Timestamp = time.Unix(ts, 0)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
