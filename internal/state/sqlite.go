package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// timeLayout has a fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore implements Store on top of SQLite.
type SQLiteStore struct {
	db     *sql.DB
	path   string
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string, logger *slog.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dsn := MemoryPath
	if path != MemoryPath {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &SQLiteStore{db: db, path: path, logger: logger}
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug("opened state store", slog.String("path", path))
	return s, nil
}

// NewWithDB wraps an already migrated connection.
func NewWithDB(db *sql.DB, logger *slog.Logger) *SQLiteStore {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SQLiteStore{db: db, logger: logger}
}

// Path returns the path the store was opened on.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// generateID creates a new UUID.
func generateID() string {
	return uuid.New().String()
}

// --- Run operations ---

// CreateRun records the start of a run.
func (s *SQLiteStore) CreateRun(ctx context.Context, command, input string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:        generateID(),
		Command:   command,
		Input:     input,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	s.logger.Debug("creating run",
		slog.String("id", run.ID),
		slog.String("command", command),
		slog.String("input", input))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, command, input, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Input, string(run.Status), run.StartedAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// CompleteRun stores the outcome of a run.
func (s *SQLiteStore) CompleteRun(ctx context.Context, id string, result RunResult) error {
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}

	status := result.Status
	var errMsg sql.NullString
	if result.Err != nil {
		status = RunStatusFailed
		errMsg = sql.NullString{String: result.Err.Error(), Valid: true}
	}
	if status == "" || status == RunStatusRunning {
		status = RunStatusSuccess
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, output = ?, tokens = ?, nodes = ?, dropped = ?, error = ?, completed_at = ? WHERE id = ?`,
		string(status), result.Output, result.Tokens, result.Nodes, result.Dropped, errMsg,
		time.Now().UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return nil
}

const runColumns = `id, command, input, output, status, tokens, nodes, dropped, error, started_at, completed_at`

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*Run, error) {
	var (
		run         Run
		status      string
		errMsg      sql.NullString
		startedAt   string
		completedAt sql.NullString
	)
	if err := sc.Scan(&run.ID, &run.Command, &run.Input, &run.Output, &status,
		&run.Tokens, &run.Nodes, &run.Dropped, &errMsg, &startedAt, &completedAt); err != nil {
		return nil, err
	}

	run.Status = RunStatus(status)
	run.Error = errMsg.String

	t, err := parseTime(startedAt)
	if err != nil {
		return nil, err
	}
	run.StartedAt = t

	if completedAt.Valid && completedAt.String != "" {
		t, err := parseTime(completedAt.String)
		if err != nil {
			return nil, err
		}
		run.CompletedAt = &t
	}
	return &run, nil
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}
