// Package store caches classification results in SQLite, keyed by the
// content hash of the analyzed audio.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RyanBlaney/taal-finder/taal"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS analyses (
	id           TEXT PRIMARY KEY,
	cache_key    TEXT NOT NULL UNIQUE,
	source       TEXT NOT NULL,
	taal         TEXT NOT NULL,
	confidence   REAL NOT NULL,
	tempo_bpm    REAL NOT NULL,
	fallback     INTEGER NOT NULL,
	result_json  TEXT NOT NULL,
	created_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS analyses_created_at ON analyses(created_at);
`

// fixed-width so created_at sorts lexically
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Record is one stored analysis.
type Record struct {
	ID        string       `json:"id"`
	Key       string       `json:"key"`
	Source    string       `json:"source"`
	CreatedAt time.Time    `json:"created_at"`
	Result    *taal.Result `json:"result"`
}

// Store persists analyses in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the database at path and runs migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save stores result under key, replacing any earlier analysis with the
// same key. The record keeps its original ID across replacements.
func (s *Store) Save(ctx context.Context, key, source string, result *taal.Result) (Record, error) {
	if key == "" {
		return Record{}, errors.New("empty cache key")
	}
	if result == nil {
		return Record{}, errors.New("nil result")
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return Record{}, fmt.Errorf("marshal result: %w", err)
	}

	now := s.now().UTC()
	var id string
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO analyses (id, cache_key, source, taal, confidence, tempo_bpm, fallback, result_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET
			source = excluded.source,
			taal = excluded.taal,
			confidence = excluded.confidence,
			tempo_bpm = excluded.tempo_bpm,
			fallback = excluded.fallback,
			result_json = excluded.result_json,
			created_at = excluded.created_at
		 RETURNING id`,
		uuid.New().String(), key, source, string(result.Taal), result.Confidence,
		result.TempoBPM, result.Fallback, string(resultJSON), now.Format(timeLayout),
	).Scan(&id)
	if err != nil {
		return Record{}, fmt.Errorf("insert analysis: %w", err)
	}

	return Record{
		ID:        id,
		Key:       key,
		Source:    source,
		CreatedAt: now,
		Result:    result,
	}, nil
}

// Lookup returns the stored result for key. ok is false when nothing is
// stored under key.
func (s *Store) Lookup(ctx context.Context, key string) (result *taal.Result, ok bool, err error) {
	var resultJSON string
	err = s.db.QueryRowContext(ctx,
		`SELECT result_json FROM analyses WHERE cache_key = ?`, key,
	).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query analysis: %w", err)
	}

	result = &taal.Result{}
	if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
		return nil, false, fmt.Errorf("unmarshal result: %w", err)
	}
	return result, true, nil
}

// Recent returns up to limit analyses, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		return []Record{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, cache_key, source, result_json, created_at
		 FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var (
			rec        Record
			resultJSON string
			createdAt  string
		)
		if err := rows.Scan(&rec.ID, &rec.Key, &rec.Source, &resultJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		rec.Result = &taal.Result{}
		if err := json.Unmarshal([]byte(resultJSON), rec.Result); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
