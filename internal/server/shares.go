package server

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ShareRecord is the persisted metadata for one share. Everything except
// DownloadCount is write-once; the counter is mutated only through
// IncrementDownloads.
type ShareRecord struct {
	ID            string
	ObjectKey     string
	OriginalName  string
	PasswordHash  string // empty means the share is unprotected
	DownloadCount int64
	CreatedAt     time.Time
}

// Protected reports whether resolving this share requires a password.
func (r ShareRecord) Protected() bool {
	return r.PasswordHash != ""
}

// RecordStore persists share metadata. Implementations must make
// IncrementDownloads atomic with respect to concurrent calls for the
// same id.
type RecordStore interface {
	Create(ctx context.Context, objectKey, originalName, passwordHash string) (ShareRecord, error)
	Get(ctx context.Context, id string) (ShareRecord, error)
	IncrementDownloads(ctx context.Context, id string) error
}

// ShareStore is the Postgres-backed RecordStore.
type ShareStore struct {
	db *sql.DB
}

// NewShareStore returns a ShareStore on top of an open connection pool.
func NewShareStore(db *sql.DB) *ShareStore {
	return &ShareStore{db: db}
}

// Create inserts a new share row with a fresh id and a zero counter.
func (s *ShareStore) Create(ctx context.Context, objectKey, originalName, passwordHash string) (ShareRecord, error) {
	rec := ShareRecord{
		ID:           uuid.New().String(),
		ObjectKey:    objectKey,
		OriginalName: originalName,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	// password_hash is nullable; store NULL rather than an empty string so
	// "unprotected" has exactly one representation in the database.
	var hash sql.NullString
	if passwordHash != "" {
		hash = sql.NullString{String: passwordHash, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO shares (id, object_key, orig_name, password_hash, download_count, created_at)
		VALUES ($1, $2, $3, $4, 0, $5)
	`, rec.ID, rec.ObjectKey, rec.OriginalName, hash, rec.CreatedAt)
	if err != nil {
		return ShareRecord{}, &PersistenceError{Op: "create share", Err: err}
	}
	return rec, nil
}

// Get loads a share row by id. Returns ErrShareNotFound when no row
// exists; an id that is not even a UUID can never match a row, so it
// maps to the same outcome instead of a database type error.
func (s *ShareStore) Get(ctx context.Context, id string) (ShareRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ShareRecord{}, ErrShareNotFound
	}

	var (
		rec  ShareRecord
		hash sql.NullString
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, object_key, orig_name, password_hash, download_count, created_at
		FROM shares
		WHERE id = $1
	`, id).Scan(&rec.ID, &rec.ObjectKey, &rec.OriginalName, &hash, &rec.DownloadCount, &rec.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return ShareRecord{}, ErrShareNotFound
		}
		return ShareRecord{}, &PersistenceError{Op: "get share", Err: err}
	}
	if hash.Valid {
		rec.PasswordHash = hash.String
	}
	return rec, nil
}

// IncrementDownloads bumps the counter in a single UPDATE so concurrent
// resolutions never lose updates.
func (s *ShareStore) IncrementDownloads(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrShareNotFound
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE shares SET download_count = download_count + 1 WHERE id = $1
	`, id)
	if err != nil {
		return &PersistenceError{Op: "increment downloads", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "increment downloads", Err: err}
	}
	if n == 0 {
		return ErrShareNotFound
	}
	return nil
}
