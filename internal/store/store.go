// Package store persists reduce and settlement run records to a pure-Go
// sqlite database (modernc.org/sqlite), adapted from the connection-wrapper
// idiom the ambient stack uses elsewhere in this module.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status values recorded for a run.
const (
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Status is the outcome of a recorded run.
type Status string

// DB wraps the sqlite connection used to persist run records and the job
// history table internal/queue reads and writes.
type DB struct {
	conn *sql.DB
}

// Open creates the data directory if needed, opens a WAL-mode sqlite
// connection at path, and runs the schema migration.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("store: failed to create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("store: failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("store: failed to ping database: %w", err)
	}
	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error { return db.conn.Close() }

// Conn exposes the raw *sql.DB, e.g. for internal/queue.History.
func (db *DB) Conn() *sql.DB { return db.conn }

func (db *DB) migrate() error {
	const schema = `
	CREATE TABLE IF NOT EXISTS job_history (
		job_type TEXT PRIMARY KEY,
		last_run_at TEXT NOT NULL,
		last_status TEXT NOT NULL DEFAULT 'success'
	);

	CREATE TABLE IF NOT EXISTS reduce_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		status TEXT NOT NULL,
		num_vars INTEGER NOT NULL,
		num_binaries INTEGER NOT NULL,
		penalty_weight REAL NOT NULL,
		error TEXT
	);

	CREATE TABLE IF NOT EXISTS settlement_runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		status TEXT NOT NULL,
		num_parties INTEGER NOT NULL,
		num_transactions INTEGER NOT NULL,
		selected_count INTEGER NOT NULL,
		scenario_text TEXT NOT NULL DEFAULT '',
		error TEXT
	);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("store: failed to run schema migration: %w", err)
	}
	return nil
}

// ReduceRun is a recorded QUMO reduction attempt.
type ReduceRun struct {
	ID            uuid.UUID
	CreatedAt     time.Time
	Status        Status
	NumVars       int
	NumBinaries   int
	PenaltyWeight float64
	Error         string
}

// SaveReduceRun inserts or replaces a reduce run record.
func (db *DB) SaveReduceRun(r ReduceRun) error {
	_, err := db.conn.Exec(`
		INSERT INTO reduce_runs (id, created_at, status, num_vars, num_binaries, penalty_weight, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			num_vars = excluded.num_vars,
			num_binaries = excluded.num_binaries,
			penalty_weight = excluded.penalty_weight,
			error = excluded.error
	`, r.ID.String(), r.CreatedAt.Format(time.RFC3339), string(r.Status), r.NumVars, r.NumBinaries, r.PenaltyWeight, r.Error)
	if err != nil {
		return fmt.Errorf("store: failed to save reduce run: %w", err)
	}
	return nil
}

// SettlementRun is a recorded settlement solve attempt. ScenarioText holds
// the raw scenario body that produced it, so a failed run can be re-parsed
// and re-solved later without the original request.
type SettlementRun struct {
	ID              uuid.UUID
	CreatedAt       time.Time
	Status          Status
	NumParties      int
	NumTransactions int
	SelectedCount   int
	ScenarioText    string
	Error           string
}

// SaveSettlementRun inserts or replaces a settlement run record.
func (db *DB) SaveSettlementRun(r SettlementRun) error {
	_, err := db.conn.Exec(`
		INSERT INTO settlement_runs (id, created_at, status, num_parties, num_transactions, selected_count, scenario_text, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			num_parties = excluded.num_parties,
			num_transactions = excluded.num_transactions,
			selected_count = excluded.selected_count,
			scenario_text = excluded.scenario_text,
			error = excluded.error
	`, r.ID.String(), r.CreatedAt.Format(time.RFC3339), string(r.Status), r.NumParties, r.NumTransactions, r.SelectedCount, r.ScenarioText, r.Error)
	if err != nil {
		return fmt.Errorf("store: failed to save settlement run: %w", err)
	}
	return nil
}

// FailedSettlementRuns returns the ids of settlement runs recorded as
// failed, for the scheduler's retry sweep.
func (db *DB) FailedSettlementRuns() ([]uuid.UUID, error) {
	rows, err := db.conn.Query(`SELECT id FROM settlement_runs WHERE status = ?`, string(StatusFailed))
	if err != nil {
		return nil, fmt.Errorf("store: failed to query failed settlement runs: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var idStr string
		if err := rows.Scan(&idStr); err != nil {
			return nil, fmt.Errorf("store: failed to scan settlement run id: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("store: invalid stored run id %q: %w", idStr, err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetSettlementRun loads a single settlement run record by id, for the
// scheduler's retry sweep to recover the scenario text a failed run was
// solved from.
func (db *DB) GetSettlementRun(id uuid.UUID) (*SettlementRun, error) {
	row := db.conn.QueryRow(`
		SELECT id, created_at, status, num_parties, num_transactions, selected_count, scenario_text, error
		FROM settlement_runs WHERE id = ?
	`, id.String())

	var r SettlementRun
	var idStr, createdAt, status string
	if err := row.Scan(&idStr, &createdAt, &status, &r.NumParties, &r.NumTransactions, &r.SelectedCount, &r.ScenarioText, &r.Error); err != nil {
		return nil, fmt.Errorf("store: failed to load settlement run %s: %w", id, err)
	}
	r.ID = id
	r.Status = Status(status)
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("store: invalid stored created_at %q: %w", createdAt, err)
	}
	r.CreatedAt = ts
	return &r, nil
}

// PruneOlderThan deletes reduce and settlement run records older than
// cutoff, returning the number of rows removed.
func (db *DB) PruneOlderThan(cutoff time.Time) (int64, error) {
	var total int64
	for _, table := range []string{"reduce_runs", "settlement_runs"} {
		res, err := db.conn.Exec(fmt.Sprintf(`DELETE FROM %s WHERE created_at < ?`, table), cutoff.Format(time.RFC3339))
		if err != nil {
			return total, fmt.Errorf("store: failed to prune %s: %w", table, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("store: failed to count pruned rows in %s: %w", table, err)
		}
		total += n
	}
	return total, nil
}
