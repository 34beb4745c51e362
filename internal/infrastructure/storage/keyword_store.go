// Package storage persists keyword effectiveness statistics in SQLite.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"NewsScanner/internal/domain"
	"NewsScanner/internal/ports"
)

const schema = `CREATE TABLE IF NOT EXISTS keyword_stats (
	keyword       TEXT PRIMARY KEY,
	times_used    INTEGER NOT NULL DEFAULT 0,
	high_count    INTEGER NOT NULL DEFAULT 0,
	medium_count  INTEGER NOT NULL DEFAULT 0,
	low_count     INTEGER NOT NULL DEFAULT 0,
	last_used     TEXT,
	effectiveness REAL NOT NULL DEFAULT 0
)`

// KeywordStore is the SQLite-backed stat store. Rows are upserted, never
// deleted; a mutex keeps the read-modify-write of one scan from
// interleaving with another (single-writer discipline).
type KeywordStore struct {
	db *sql.DB
	mu sync.Mutex
}

var _ ports.KeywordStore = (*KeywordStore)(nil)

// Open creates or opens the store file and ensures the schema.
func Open(path string) (*KeywordStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open keyword store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure keyword schema: %w", err)
	}
	return &KeywordStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *KeywordStore) Close() error {
	return s.db.Close()
}

// Load returns all recorded keyword statistics, best-scoring first.
func (s *KeywordStore) Load(ctx context.Context) ([]domain.KeywordStat, error) {
	query := sq.Select("keyword", "times_used", "high_count", "medium_count", "low_count", "last_used", "effectiveness").
		From("keyword_stats").
		OrderBy("effectiveness DESC, keyword ASC")

	sqlText, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build load query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("query keyword stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.KeywordStat
	for rows.Next() {
		var stat domain.KeywordStat
		var lastUsed sql.NullString
		if err := rows.Scan(&stat.Keyword, &stat.TimesUsed, &stat.HighCount,
			&stat.MediumCount, &stat.LowCount, &lastUsed, &stat.Effectiveness); err != nil {
			return nil, fmt.Errorf("scan keyword stat: %w", err)
		}
		if lastUsed.Valid {
			if t, err := time.Parse(time.RFC3339, lastUsed.String); err == nil {
				stat.LastUsed = t
			}
		}
		stats = append(stats, stat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keyword stats: %w", err)
	}
	return stats, nil
}

// Save upserts the given statistics in one transaction.
func (s *KeywordStore) Save(ctx context.Context, stats []domain.KeywordStat) error {
	if len(stats) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}

	for _, stat := range stats {
		var lastUsed any
		if !stat.LastUsed.IsZero() {
			lastUsed = stat.LastUsed.Format(time.RFC3339)
		}

		insert := sq.Insert("keyword_stats").
			Columns("keyword", "times_used", "high_count", "medium_count", "low_count", "last_used", "effectiveness").
			Values(stat.Keyword, stat.TimesUsed, stat.HighCount, stat.MediumCount, stat.LowCount, lastUsed, stat.Effectiveness).
			Suffix(`ON CONFLICT(keyword) DO UPDATE SET
				times_used    = excluded.times_used,
				high_count    = excluded.high_count,
				medium_count  = excluded.medium_count,
				low_count     = excluded.low_count,
				last_used     = excluded.last_used,
				effectiveness = excluded.effectiveness`)

		sqlText, args, err := insert.ToSql()
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("build upsert for %q: %w", stat.Keyword, err)
		}
		if _, err := tx.ExecContext(ctx, sqlText, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert keyword %q: %w", stat.Keyword, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit keyword stats: %w", err)
	}
	return nil
}
