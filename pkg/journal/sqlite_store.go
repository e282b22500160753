// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "modernc.org/sqlite"

	"github.com/Stevenfgonzalez/HHAC/pkg/core"
	"github.com/Stevenfgonzalez/HHAC/pkg/errors"
)

// SQLiteStore persists journal entries in SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) a SQLite journal at the given path and
// ensures its schema.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.New(errors.CodeJournal, "opening sqlite journal", err).
			WithContext("path", path)
	}
	store, err := NewSQLiteStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewSQLiteStore wraps an existing database handle and ensures schema.
func NewSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New(errors.CodeJournal, "db is nil", nil)
	}
	if err := ensureJournalSchema(db); err != nil {
		return nil, errors.New(errors.CodeJournal, "ensuring journal schema", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append stores a single journal entry.
func (s *SQLiteStore) Append(ctx context.Context, e Entry) error {
	conflicts, err := json.Marshal(e.Conflicts)
	if err != nil {
		return errors.New(errors.CodeJournal, "encoding conflicts", err).
			WithContext("entry_id", e.ID)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO journal_entries (
			id, created_at, input, recommendation, reasoning, consensus, confidence, vetoed, conflicts_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.CreatedAt.UTC(),
		e.Input,
		e.Recommendation,
		e.Reasoning,
		string(e.Consensus),
		e.Confidence,
		e.Vetoed,
		string(conflicts),
	)
	if err != nil {
		return errors.New(errors.CodeJournal, "inserting journal entry", err).
			WithContext("entry_id", e.ID)
	}
	return nil
}

// List returns entries matching the filter, oldest first. A limit keeps the
// most recent entries, so the query walks newest first and the result is
// reversed back into chronological order.
func (s *SQLiteStore) List(ctx context.Context, filter Filter) ([]Entry, error) {
	query := `
		SELECT id, created_at, input, recommendation, reasoning, consensus, confidence, vetoed, conflicts_json
		FROM journal_entries
	`
	var args []any
	where := ""
	addFilter := func(clause string, value any) {
		if where == "" {
			where = " WHERE " + clause
		} else {
			where += " AND " + clause
		}
		args = append(args, value)
	}
	if filter.Consensus != "" {
		addFilter("consensus = ?", string(filter.Consensus))
	}
	if filter.VetoedOnly {
		addFilter("vetoed = ?", true)
	}
	query += where + " ORDER BY created_at DESC, rowid DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.New(errors.CodeJournal, "querying journal entries", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e             Entry
			createdAt     sql.NullTime
			consensus     string
			conflictsJSON string
		)
		if err := rows.Scan(
			&e.ID,
			&createdAt,
			&e.Input,
			&e.Recommendation,
			&e.Reasoning,
			&consensus,
			&e.Confidence,
			&e.Vetoed,
			&conflictsJSON,
		); err != nil {
			return nil, errors.New(errors.CodeJournal, "scanning journal entry", err)
		}
		if createdAt.Valid {
			e.CreatedAt = createdAt.Time
		}
		e.Consensus = core.AgreementLevel(consensus)
		if conflictsJSON != "" {
			if err := json.Unmarshal([]byte(conflictsJSON), &e.Conflicts); err != nil {
				return nil, errors.New(errors.CodeJournal, "decoding conflicts", err).
					WithContext("entry_id", e.ID)
			}
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.CodeJournal, "iterating journal entries", err)
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func ensureJournalSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS journal_entries (
			id TEXT PRIMARY KEY,
			created_at TIMESTAMP NOT NULL,
			input TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			reasoning TEXT,
			consensus TEXT NOT NULL,
			confidence REAL NOT NULL,
			vetoed BOOLEAN NOT NULL DEFAULT 0,
			conflicts_json TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_journal_consensus ON journal_entries(consensus);
		CREATE INDEX IF NOT EXISTS idx_journal_vetoed ON journal_entries(vetoed);
	`)
	return err
}
