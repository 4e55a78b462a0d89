package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

var _ Journal = (*SQLiteStore)(nil)

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS operations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			path TEXT NOT NULL,
			op TEXT NOT NULL,
			stub_hash TEXT,
			doc_hash TEXT,
			definitions INTEGER,
			created_at INTEGER
		);`,
		`CREATE INDEX IF NOT EXISTS idx_operations_path ON operations(path, id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO operations (path, op, stub_hash, doc_hash, definitions, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.Path, string(e.Op), e.StubHash, e.DocHash, e.Definitions, e.CreatedAt.UnixNano())
	return err
}

func (s *SQLiteStore) Latest(ctx context.Context, path string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, path, op, stub_hash, doc_hash, definitions, created_at
		FROM operations WHERE path = ? ORDER BY id DESC LIMIT 1
	`, path)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (s *SQLiteStore) History(ctx context.Context, path string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1 // no limit in SQLite
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, op, stub_hash, doc_hash, definitions, created_at
		FROM operations WHERE path = ? ORDER BY id DESC LIMIT ?
	`, path, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*Entry, error) {
	var (
		e       Entry
		op      string
		created int64
	)
	if err := row.Scan(&e.ID, &e.Path, &op, &e.StubHash, &e.DocHash, &e.Definitions, &created); err != nil {
		return nil, err
	}
	e.Op = Op(op)
	e.CreatedAt = time.Unix(0, created)
	return &e, nil
}
