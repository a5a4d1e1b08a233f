package postgres

import (
	"context"
	"database/sql"
	"errors"

	"contentapi/internal/model"
	"contentapi/internal/repository"
)

// ContentStore is a PostgreSQL implementation of repository.ContentStore.
// The collection lives in one row of content_store, keyed by a fixed key,
// with the encoded record in a JSONB column.
type ContentStore struct {
	db  *sql.DB
	key string
}

// NewContentStore creates a new ContentStore for the given record key.
func NewContentStore(db *sql.DB, key string) *ContentStore {
	return &ContentStore{db: db, key: key}
}

var _ repository.ContentStore = (*ContentStore)(nil)

// Load reads the record. A missing row is an empty collection.
func (r *ContentStore) Load(ctx context.Context) ([]model.ContentItem, error) {
	const q = `
		SELECT value
		FROM content_store
		WHERE key = $1
	`
	var data []byte
	if err := r.db.QueryRowContext(ctx, q, r.key).Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []model.ContentItem{}, nil
		}
		return nil, err
	}
	return repository.Decode(data)
}

// Save upserts the whole record.
func (r *ContentStore) Save(ctx context.Context, items []model.ContentItem) error {
	data, err := repository.Encode(items)
	if err != nil {
		return err
	}
	const q = `
		INSERT INTO content_store (key, value, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err = r.db.ExecContext(ctx, q, r.key, string(data))
	return err
}

// Ping checks database connectivity.
func (r *ContentStore) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
