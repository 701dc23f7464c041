package server

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
)

// ObjectStore is the object-storage surface the share service needs: a
// durable write under a caller-chosen key, and a time-limited read URL
// for that key.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
}

// BlobStore implements ObjectStore on top of a MinIO (S3-compatible)
// bucket.
type BlobStore struct {
	client *minio.Client
	bucket string
}

// NewBlobStore wraps an already-constructed client and bucket. The
// caller owns client configuration and the bucket-exists check.
func NewBlobStore(client *minio.Client, bucket string) (*BlobStore, error) {
	if client == nil {
		return nil, errors.New("minio client is nil")
	}
	if bucket == "" {
		return nil, errors.New("bucket is empty")
	}
	return &BlobStore{client: client, bucket: bucket}, nil
}

// Check probes the backing bucket; used by health endpoints.
func (b *BlobStore) Check(ctx context.Context) error {
	exists, err := b.client.BucketExists(ctx, b.bucket)
	if err != nil {
		return err
	}
	if !exists {
		return errors.New("bucket missing: " + b.bucket)
	}
	return nil
}

// Put streams the payload to object storage under key. Size may be -1
// when unknown; minio-go then falls back to chunked upload.
func (b *BlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	if key == "" {
		return &StorageError{Op: "put", Err: errors.New("empty object key")}
	}
	_, err := b.client.PutObject(ctx, b.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return &StorageError{Op: "put", Err: err}
	}
	return nil
}

// PresignGet issues a presigned GET URL valid for ttl. It does not check
// that the object exists; a URL for a missing key 404s at fetch time.
func (b *BlobStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if key == "" {
		return "", &StorageError{Op: "presign", Err: errors.New("empty object key")}
	}
	u, err := b.client.PresignedGetObject(ctx, b.bucket, key, ttl, nil)
	if err != nil {
		return "", &StorageError{Op: "presign", Err: err}
	}
	return u.String(), nil
}
