// service.go - Share orchestration: upload-to-storage and gated resolution.
//
// CreateShare uploads the payload, hashes the optional password and only
// then writes the metadata row, so a record never points at an object
// that was not fully written. ResolveShare looks up the record, gates on
// the password, presigns a download URL and accounts for the download.
package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"
)

// signTTL is how long a presigned download URL stays valid.
const signTTL = 3600 * time.Second

// ResolutionState enumerates the non-error outcomes of ResolveShare.
type ResolutionState int

const (
	// Delivered means access was granted and URL is set.
	Delivered ResolutionState = iota
	// PasswordRequired means the share is protected and no password was
	// supplied. Not a failure; the caller should prompt and retry.
	PasswordRequired
	// PasswordIncorrect means a password was supplied but did not match.
	// Same prompt state as PasswordRequired, annotated as a retry.
	PasswordIncorrect
)

func (s ResolutionState) String() string {
	switch s {
	case Delivered:
		return "delivered"
	case PasswordRequired:
		return "password_required"
	case PasswordIncorrect:
		return "password_incorrect"
	default:
		return "unknown"
	}
}

// Resolution is the outcome of a ResolveShare call. URL is non-empty
// only when State is Delivered.
type Resolution struct {
	State ResolutionState
	URL   string
}

// ShareService composes the object store, the credential guard and the
// record store into the two user-facing operations.
type ShareService struct {
	objects ObjectStore
	records RecordStore
}

// NewShareService wires the service from explicitly injected adapters.
func NewShareService(objects ObjectStore, records RecordStore) *ShareService {
	return &ShareService{objects: objects, records: records}
}

// newObjectKey generates a collision-resistant storage key. The creation
// timestamp keeps keys roughly sortable; the uuid makes them unique. The
// client filename deliberately never reaches the key, it is stored
// separately for display only.
func newObjectKey(now time.Time) string {
	return fmt.Sprintf("uploads/%d-%s", now.UnixMilli(), uuid.New())
}

// CreateShare uploads the payload and creates the metadata record,
// returning the share id. Password is optional; empty means the share is
// unprotected. On any failure nothing is shared: a put failure leaves no
// record, a record failure leaves an orphaned object (logged for
// operators, never silently hidden).
func (s *ShareService) CreateShare(ctx context.Context, payload io.Reader, size int64, originalName, contentType, password string) (string, error) {
	key := newObjectKey(time.Now().UTC())

	// The upload must complete before any record exists. A record for a
	// half-written object would look like a storage outage to resolvers.
	if err := s.objects.Put(ctx, key, payload, size, contentType); err != nil {
		return "", err
	}

	var passwordHash string
	if password != "" {
		h, err := hashPassword(password)
		if err != nil {
			log.Printf("msg=orphaned_object key=%s reason=hash_failed err=%v", key, err)
			return "", &PersistenceError{Op: "hash password", Err: err}
		}
		passwordHash = h
	}

	rec, err := s.records.Create(ctx, key, sanitizeFilename(originalName), passwordHash)
	if err != nil {
		log.Printf("msg=orphaned_object key=%s reason=create_failed err=%v", key, err)
		return "", err
	}
	return rec.ID, nil
}

// ResolveShare looks up a share and, once access is granted, returns a
// presigned download URL. Password states are outcomes, not errors;
// ErrShareNotFound and storage/persistence failures come back as errors.
func (s *ShareService) ResolveShare(ctx context.Context, id, password string) (Resolution, error) {
	rec, err := s.records.Get(ctx, id)
	if err != nil {
		return Resolution{}, err
	}

	if rec.Protected() {
		if password == "" {
			return Resolution{State: PasswordRequired}, nil
		}
		if !verifyPassword(password, rec.PasswordHash) {
			return Resolution{State: PasswordIncorrect}, nil
		}
	}

	url, err := s.objects.PresignGet(ctx, rec.ObjectKey, signTTL)
	if err != nil {
		return Resolution{}, err
	}

	// Deliver even if accounting fails: under-counting beats refusing a
	// download the user is entitled to.
	if err := s.records.IncrementDownloads(ctx, id); err != nil {
		log.Printf("msg=increment_failed id=%s err=%v", id, err)
	}

	return Resolution{State: Delivered, URL: url}, nil
}
