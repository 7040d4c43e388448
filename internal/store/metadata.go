package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetMetadata returns the value stored under key and whether it exists
func (q *queries) GetMetadata(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := q.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get metadata %s: %w", key, err)
	}
	return value, true, nil
}

// SetMetadata stores value under key, replacing any previous value
func (q *queries) SetMetadata(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set metadata %s: %w", key, err)
	}
	return nil
}

// DeleteMetadata removes key; a missing key is not an error
func (q *queries) DeleteMetadata(ctx context.Context, key string) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM metadata WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete metadata %s: %w", key, err)
	}
	return nil
}
