// Package pg backs kvstore.Store with a Postgres table.
package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	const q = `SELECT value FROM kv_entries WHERE key = $1`

	var value string
	if err := s.db.GetContext(ctx, &value, q, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("fetching entry[%s]: %w", key, err)
	}

	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value string) error {
	const q = `
	INSERT INTO kv_entries (key, value, updated_at) VALUES ($1, $2, $3)
	ON CONFLICT (key) DO UPDATE SET value = $2, updated_at = $3`

	if _, err := s.db.ExecContext(ctx, q, key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("storing entry[%s]: %w", key, err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	const q = `DELETE FROM kv_entries WHERE key = $1`

	if _, err := s.db.ExecContext(ctx, q, key); err != nil {
		return fmt.Errorf("deleting entry[%s]: %w", key, err)
	}

	return nil
}
