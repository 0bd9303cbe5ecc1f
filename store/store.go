// Package store persists consolidated bids and workflow checkpoints in a SQL
// database. SQLite is the default; MySQL is supported for shared
// deployments.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/tailored-agentic-units/rfp/orchestrate/state"
	"github.com/tailored-agentic-units/rfp/workflow"
)

// ErrNotFound is returned when no bid exists for a run ID.
var ErrNotFound = errors.New("bid not found")

// SQLStore implements workflow.Sink and state.CheckpointStore.
type SQLStore struct {
	db      *sql.DB
	dialect dialect
}

// Open connects to the database and migrates it. For sqlite the DSN is a
// file path whose parent directory is created if missing.
func Open(driver, dsn string) (*SQLStore, error) {
	var d dialect
	switch driver {
	case "", "sqlite":
		d = sqliteDialect
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store dir: %w", err)
			}
		}
	case "mysql":
		d = mysqlDialect
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", driver)
	}

	db, err := sql.Open(d.name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", d.name, err)
	}

	if d.name == "mysql" {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	} else {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", d.name, err)
	}

	s := &SQLStore{db: db, dialect: d}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// MySQLDSN builds a go-sql-driver DSN from its parts.
func MySQLDSN(user, password, host, port, database string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&loc=Local",
		user, password, host, port, database)
}

func (s *SQLStore) migrate() error {
	for _, stmt := range s.dialect.schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}

	var v int
	err := s.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("read schema version: %w", err)
	case v != schemaVersion:
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// Emit stores a bid, replacing any earlier bid for the same run.
func (s *SQLStore) Emit(ctx context.Context, bid *workflow.ConsolidatedBid) error {
	payload, err := json.Marshal(bid)
	if err != nil {
		return fmt.Errorf("marshal bid: %w", err)
	}

	var score sql.NullFloat64
	if bid.Qualification != nil {
		score = sql.NullFloat64{Float64: bid.Qualification.Score, Valid: true}
	}
	var total sql.NullString
	if bid.Pricing != nil {
		total = sql.NullString{String: bid.Pricing.GrandTotal.StringFixed(2), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`REPLACE INTO bids(run_id, rfp_id, client, outcome, risk_score, grand_total, decided_at, payload)
		 VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		bid.RunID, bid.RFPID, bid.Client, string(bid.Outcome), score, total,
		bid.DecidedAt.UTC().Format(time.RFC3339Nano), payload,
	)
	if err != nil {
		return fmt.Errorf("insert bid %s: %w", bid.RunID, err)
	}
	return nil
}

// Bid returns the stored bid for a run.
func (s *SQLStore) Bid(ctx context.Context, runID string) (*workflow.ConsolidatedBid, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, "SELECT payload FROM bids WHERE run_id = ?", runID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get bid %s: %w", runID, err)
	}

	var bid workflow.ConsolidatedBid
	if err := json.Unmarshal(payload, &bid); err != nil {
		return nil, fmt.Errorf("decode bid %s: %w", runID, err)
	}
	return &bid, nil
}

// Summary is one row of the bid index.
type Summary struct {
	RunID      string
	RFPID      string
	Client     string
	Outcome    workflow.Outcome
	RiskScore  *float64
	GrandTotal string
	DecidedAt  time.Time
}

// Filter narrows ListBids. Zero fields match everything.
type Filter struct {
	RFPID   string
	Outcome workflow.Outcome
	Limit   int
}

// ListBids returns bid summaries, most recent first.
func (s *SQLStore) ListBids(ctx context.Context, f Filter) ([]Summary, error) {
	query := "SELECT run_id, rfp_id, client, outcome, risk_score, grand_total, decided_at FROM bids WHERE 1=1"
	var args []any
	if f.RFPID != "" {
		query += " AND rfp_id = ?"
		args = append(args, f.RFPID)
	}
	if f.Outcome != "" {
		query += " AND outcome = ?"
		args = append(args, string(f.Outcome))
	}
	query += " ORDER BY decided_at DESC, run_id"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bids: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			sum     Summary
			outcome string
			score   sql.NullFloat64
			total   sql.NullString
			decided string
		)
		if err := rows.Scan(&sum.RunID, &sum.RFPID, &sum.Client, &outcome, &score, &total, &decided); err != nil {
			return nil, fmt.Errorf("scan bid: %w", err)
		}
		sum.Outcome = workflow.Outcome(outcome)
		if score.Valid {
			sum.RiskScore = &score.Float64
		}
		sum.GrandTotal = total.String
		sum.DecidedAt, _ = time.Parse(time.RFC3339Nano, decided)
		out = append(out, sum)
	}
	return out, rows.Err()
}

// Save persists a checkpoint, replacing any existing one for the run.
func (s *SQLStore) Save(cp state.Checkpoint) error {
	_, err := s.db.Exec(
		"REPLACE INTO checkpoints(run_id, node, saved_at, payload) VALUES(?, ?, ?, ?)",
		cp.RunID, cp.Node, cp.Timestamp.UTC().Format(time.RFC3339Nano), cp.Data,
	)
	if err != nil {
		return fmt.Errorf("save checkpoint %s: %w", cp.RunID, err)
	}
	return nil
}

// Load retrieves the checkpoint for a run.
func (s *SQLStore) Load(runID string) (state.Checkpoint, error) {
	var (
		cp    = state.Checkpoint{RunID: runID}
		saved string
	)
	err := s.db.QueryRow(
		"SELECT node, saved_at, payload FROM checkpoints WHERE run_id = ?", runID,
	).Scan(&cp.Node, &saved, &cp.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return state.Checkpoint{}, fmt.Errorf("%w: %s", state.ErrCheckpointNotFound, runID)
	}
	if err != nil {
		return state.Checkpoint{}, fmt.Errorf("load checkpoint %s: %w", runID, err)
	}
	cp.Timestamp, _ = time.Parse(time.RFC3339Nano, saved)
	return cp, nil
}

// Delete removes the checkpoint for a run. Missing runs are ignored.
func (s *SQLStore) Delete(runID string) error {
	if _, err := s.db.Exec("DELETE FROM checkpoints WHERE run_id = ?", runID); err != nil {
		return fmt.Errorf("delete checkpoint %s: %w", runID, err)
	}
	return nil
}

// List returns the run IDs with stored checkpoints in sorted order.
func (s *SQLStore) List() ([]string, error) {
	rows, err := s.db.Query("SELECT run_id FROM checkpoints ORDER BY run_id")
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

var (
	_ workflow.Sink         = (*SQLStore)(nil)
	_ state.CheckpointStore = (*SQLStore)(nil)
)
