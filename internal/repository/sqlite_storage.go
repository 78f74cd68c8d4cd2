package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/tinytrail/internal/db"
)

// SQLiteStorageRepo implements StorageRepo on the client_storage table.
type SQLiteStorageRepo struct {
	db db.DBTX
}

// NewSQLiteStorageRepo creates a new SQLiteStorageRepo.
func NewSQLiteStorageRepo(conn db.DBTX) *SQLiteStorageRepo {
	return &SQLiteStorageRepo{db: conn}
}

func (r *SQLiteStorageRepo) GetItem(ctx context.Context, key string) (string, error) {
	row := r.db.QueryRowContext(ctx, `SELECT value FROM client_storage WHERE key = ?`, key)

	var value string
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("storage key %q: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("reading storage key %q: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteStorageRepo) SetItem(ctx context.Context, key, value string) error {
	query := `INSERT INTO client_storage (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	if _, err := r.db.ExecContext(ctx, query, key, value, nowUTC()); err != nil {
		return fmt.Errorf("writing storage key %q: %w", key, err)
	}
	return nil
}

func (r *SQLiteStorageRepo) RemoveItem(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM client_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("removing storage key %q: %w", key, err)
	}
	return nil
}
