package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string

	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return errors.New("sqlite path is required")
	}
	if s.db != nil {
		return nil
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}

	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run Run) (Run, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, err
	}
	run = stamp(run)

	_, err = db.ExecContext(ctx, `
		INSERT INTO runs (
			id, algorithm, dataset, seed, fitness, value, size, capacity,
			feasible, found_at, evaluations, duration_ns, solution, config, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			algorithm = excluded.algorithm,
			dataset = excluded.dataset,
			seed = excluded.seed,
			fitness = excluded.fitness,
			value = excluded.value,
			size = excluded.size,
			capacity = excluded.capacity,
			feasible = excluded.feasible,
			found_at = excluded.found_at,
			evaluations = excluded.evaluations,
			duration_ns = excluded.duration_ns,
			solution = excluded.solution,
			config = excluded.config,
			created_at = excluded.created_at
	`,
		run.ID, run.Algorithm, run.Dataset, run.Seed, run.Fitness, run.Value, run.Size, run.Capacity,
		run.Feasible, run.FoundAt, run.Evaluations, int64(run.Duration), run.Solution, run.Config,
		run.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return run, nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (Run, bool, error) {
	db, err := s.getDB()
	if err != nil {
		return Run{}, false, err
	}

	row := db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, fmt.Errorf("get run %s: %w", id, err)
	}
	return run, true, nil
}

// ListRuns returns the newest runs first; limit <= 0 returns all of them.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	db, err := s.getDB()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) getDB() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errors.New("store is not initialized")
	}
	return s.db, nil
}

const runColumns = `id, algorithm, dataset, seed, fitness, value, size, capacity,
	feasible, found_at, evaluations, duration_ns, solution, config, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		duration int64
		created  int64
	)
	err := row.Scan(
		&run.ID, &run.Algorithm, &run.Dataset, &run.Seed, &run.Fitness, &run.Value, &run.Size, &run.Capacity,
		&run.Feasible, &run.FoundAt, &run.Evaluations, &duration, &run.Solution, &run.Config, &created,
	)
	if err != nil {
		return Run{}, err
	}
	run.Duration = time.Duration(duration)
	run.CreatedAt = time.Unix(0, created).UTC()
	return run, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			algorithm TEXT NOT NULL,
			dataset TEXT NOT NULL,
			seed INTEGER NOT NULL,
			fitness REAL NOT NULL,
			value INTEGER NOT NULL,
			size INTEGER NOT NULL,
			capacity INTEGER NOT NULL,
			feasible BOOLEAN NOT NULL,
			found_at INTEGER NOT NULL,
			evaluations INTEGER NOT NULL,
			duration_ns INTEGER NOT NULL,
			solution TEXT NOT NULL,
			config TEXT NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS runs_created_at ON runs (created_at);
	`)
	return err
}
