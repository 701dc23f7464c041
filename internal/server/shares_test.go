package server

import (
	"context"
	"errors"
	"testing"
)

func TestShareStore_NonUUIDMapsToNotFound(t *testing.T) {
	// Ids that are not UUIDs can never match a row; the store answers
	// NotFound without a database round trip, so nil is fine here.
	store := NewShareStore(nil)
	ctx := context.Background()

	if _, err := store.Get(ctx, "nonexistent-id"); !errors.Is(err, ErrShareNotFound) {
		t.Errorf("Expected ErrShareNotFound for non-uuid id, got %v", err)
	}
	if err := store.IncrementDownloads(ctx, "nonexistent-id"); !errors.Is(err, ErrShareNotFound) {
		t.Errorf("Expected ErrShareNotFound for non-uuid id, got %v", err)
	}
}

func TestShareRecord_Protected(t *testing.T) {
	if (ShareRecord{}).Protected() {
		t.Error("Expected record without hash to be unprotected")
	}
	if !(ShareRecord{PasswordHash: "$2a$12$something"}).Protected() {
		t.Error("Expected record with hash to be protected")
	}
}
