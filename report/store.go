package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/theapemachine/errnie"
	_ "modernc.org/sqlite"

	"github.com/theapemachine/qsearch"
)

var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	created_at  INTEGER NOT NULL,
	backend     TEXT NOT NULL,
	shots       INTEGER NOT NULL,
	repeats     INTEGER NOT NULL,
	seed        INTEGER NOT NULL,
	min_qubits  INTEGER NOT NULL,
	max_qubits  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS records (
	run_id             TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	n                  INTEGER NOT NULL,
	qubits             INTEGER NOT NULL,
	target             INTEGER NOT NULL,
	classical_steps    INTEGER NOT NULL,
	binary_steps       INTEGER NOT NULL,
	quantum_iterations INTEGER NOT NULL,
	theoretical        REAL NOT NULL,
	empirical          REAL NOT NULL,
	shots              INTEGER NOT NULL,
	repeats            INTEGER NOT NULL,
	std_err            REAL NOT NULL,
	classical_ns       INTEGER NOT NULL,
	quantum_ns         INTEGER NOT NULL,
	PRIMARY KEY (run_id, n)
);
`

// Run is one stored sweep.
type Run struct {
	ID        string
	CreatedAt time.Time
	Backend   string
	Shots     int
	Repeats   int
	Seed      uint64
	MinQubits int
	MaxQubits int
	Records   int
}

// Store keeps benchmark history in a SQLite file.
type Store struct {
	conn *sql.DB
	path string
}

// OpenStore opens (creating if needed) the database at path.
func OpenStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(1)

	return &Store{conn: conn, path: path}, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// Migrate creates the schema if it is missing.
func (s *Store) Migrate() error {
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("migrate %s: %w", s.path, err)
	}
	return nil
}

// SaveRun stores a sweep and its records in one transaction and returns the run ID.
func (s *Store) SaveRun(ctx context.Context, cfg *qsearch.Config, records qsearch.Records) (string, error) {
	if cfg == nil {
		cfg = qsearch.NewConfig()
	}

	id := uuid.NewString()

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, backend, shots, repeats, seed, min_qubits, max_qubits)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UnixNano(), cfg.Backend, cfg.Shots, cfg.Repeats,
		int64(cfg.Seed), cfg.MinQubits, cfg.MaxQubits,
	); err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO records (run_id, n, qubits, target, classical_steps, binary_steps,
		 quantum_iterations, theoretical, empirical, shots, repeats, std_err, classical_ns, quantum_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx,
			id, r.N, r.Qubits, r.Target, r.ClassicalSteps, r.BinarySteps,
			r.QuantumIterations, r.TheoreticalProbability, r.EmpiricalSuccessRate,
			r.Shots, r.Repeats, r.StdErr, int64(r.ClassicalTime), int64(r.QuantumTime),
		); err != nil {
			return "", fmt.Errorf("insert record N=%d: %w", r.N, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}

	errnie.Info("saved run %s with %d records", id, len(records))

	return id, nil
}

// Runs lists stored sweeps, newest first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT r.id, r.created_at, r.backend, r.shots, r.repeats, r.seed,
		       r.min_qubits, r.max_qubits, COUNT(rec.n)
		FROM runs r
		LEFT JOIN records rec ON rec.run_id = r.id
		GROUP BY r.id
		ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run     Run
			created int64
			seed    int64
		)

		if err := rows.Scan(
			&run.ID, &created, &run.Backend, &run.Shots, &run.Repeats, &seed,
			&run.MinQubits, &run.MaxQubits, &run.Records,
		); err != nil {
			return nil, err
		}

		run.CreatedAt = time.Unix(0, created)
		run.Seed = uint64(seed)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// Records loads the records of one run ordered by N.
func (s *Store) Records(ctx context.Context, runID string) (qsearch.Records, error) {
	var exists int
	if err := s.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM runs WHERE id = ?`, runID,
	).Scan(&exists); err != nil {
		return nil, err
	}

	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	rows, err := s.conn.QueryContext(ctx, `
		SELECT n, qubits, target, classical_steps, binary_steps, quantum_iterations,
		       theoretical, empirical, shots, repeats, std_err, classical_ns, quantum_ns
		FROM records WHERE run_id = ? ORDER BY n`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records qsearch.Records
	for rows.Next() {
		var (
			r                    qsearch.BenchmarkRecord
			classicalNs, quantNs int64
		)

		if err := rows.Scan(
			&r.N, &r.Qubits, &r.Target, &r.ClassicalSteps, &r.BinarySteps, &r.QuantumIterations,
			&r.TheoreticalProbability, &r.EmpiricalSuccessRate, &r.Shots, &r.Repeats, &r.StdErr,
			&classicalNs, &quantNs,
		); err != nil {
			return nil, err
		}

		r.ClassicalTime = time.Duration(classicalNs)
		r.QuantumTime = time.Duration(quantNs)
		records = append(records, r)
	}

	return records, rows.Err()
}
