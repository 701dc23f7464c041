// errors.go - Error taxonomy for the share pipeline.
//
// Distinguishes object-storage failures from record-store failures so
// callers can map them to the right user-visible outcome.
package server

import "errors"

// ErrShareNotFound is returned when no share exists for an identifier.
var ErrShareNotFound = errors.New("share not found")

// StorageError wraps a failure from the object store (put or presign).
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	if e.Err != nil {
		return "storage: " + e.Op + ": " + e.Err.Error()
	}
	return "storage: " + e.Op
}

func (e *StorageError) Unwrap() error { return e.Err }

// PersistenceError wraps a failure from the record store.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Err != nil {
		return "persistence: " + e.Op + ": " + e.Err.Error()
	}
	return "persistence: " + e.Op
}

func (e *PersistenceError) Unwrap() error { return e.Err }
