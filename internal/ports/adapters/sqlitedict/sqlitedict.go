// Package sqlitedict keeps pronunciations in a SQLite file so a large
// dictionary is parsed once and then queried per word.
package sqlitedict

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pronunciations (
	word    TEXT    NOT NULL,
	variant INTEGER NOT NULL,
	phones  TEXT    NOT NULL,
	PRIMARY KEY (word, variant)
)`

type Store struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary db: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) Pronunciations(ctx context.Context, word string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT phones FROM pronunciations WHERE word = ? ORDER BY variant`,
		strings.ToLower(word))
	if err != nil {
		return nil, fmt.Errorf("query pronunciations: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Source is anything that can enumerate headwords with their pronunciations,
// such as a parsed CMU dictionary.
type Source interface {
	Each(fn func(word string, prons []string) error) error
}

// Import replaces the stored pronunciations of every word in src inside one
// transaction and returns the number of words written.
func (s *Store) Import(ctx context.Context, src Source) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	del, err := tx.PrepareContext(ctx, `DELETE FROM pronunciations WHERE word = ?`)
	if err != nil {
		return 0, err
	}
	defer del.Close()
	ins, err := tx.PrepareContext(ctx, `INSERT INTO pronunciations (word, variant, phones) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer ins.Close()

	n := 0
	err = src.Each(func(word string, prons []string) error {
		word = strings.ToLower(word)
		if _, err := del.ExecContext(ctx, word); err != nil {
			return fmt.Errorf("clear %q: %w", word, err)
		}
		for i, p := range prons {
			if _, err := ins.ExecContext(ctx, word, i, p); err != nil {
				return fmt.Errorf("insert %q: %w", word, err)
			}
		}
		n++
		return nil
	})
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return n, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT word) FROM pronunciations`).Scan(&n)
	return n, err
}
