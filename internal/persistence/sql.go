package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLKV stores entries in the kv_entries table, one row per (namespace, key).
// It works with any driver sqlx can rebind for; Postgres and SQLite are wired.
type SQLKV struct {
	db        *sqlx.DB
	namespace string
	now       func() time.Time
}

// NewSQLKV builds a KeyValue over an open database. The kv_entries table must
// exist; see RunMigrations.
func NewSQLKV(db *sqlx.DB, namespace string) *SQLKV {
	return &SQLKV{db: db, namespace: namespace, now: time.Now}
}

func (s *SQLKV) Get(ctx context.Context, key string) (string, bool, error) {
	const query = `SELECT entry_value FROM kv_entries WHERE namespace = ? AND entry_key = ?`

	var value string
	err := s.db.GetContext(ctx, &value, s.db.Rebind(query), s.namespace, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *SQLKV) Put(ctx context.Context, key, value string) error {
	const query = `
        INSERT INTO kv_entries (namespace, entry_key, entry_value, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT (namespace, entry_key)
        DO UPDATE SET entry_value = excluded.entry_value, updated_at = excluded.updated_at`

	_, err := s.db.ExecContext(ctx, s.db.Rebind(query), s.namespace, key, value, s.now().UnixMilli())
	return err
}

func (s *SQLKV) Delete(ctx context.Context, key string) (bool, error) {
	const query = `DELETE FROM kv_entries WHERE namespace = ? AND entry_key = ?`

	res, err := s.db.ExecContext(ctx, s.db.Rebind(query), s.namespace, key)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLKV) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errors.New("sql database not configured")
	}
	return s.db.PingContext(ctx)
}
