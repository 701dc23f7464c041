package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// fakeS3 starts an in-process S3-compatible endpoint and returns a
// BlobStore talking to it.
func fakeS3(t *testing.T, bucket string) (*BlobStore, *httptest.Server) {
	t.Helper()

	backend := s3mem.New()
	if err := backend.CreateBucket(bucket); err != nil {
		t.Fatalf("create bucket: %v", err)
	}
	ts := httptest.NewServer(gofakes3.New(backend).Server())
	t.Cleanup(ts.Close)

	u, err := url.Parse(ts.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	mc, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("test-access", "test-secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	if err != nil {
		t.Fatalf("minio client: %v", err)
	}

	blobs, err := NewBlobStore(mc, bucket)
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	return blobs, ts
}

func TestBlobStore_PutAndPresign(t *testing.T) {
	blobs, _ := fakeS3(t, "shares")
	ctx := context.Background()

	content := "hello, presigned world"
	if err := blobs.Put(ctx, "uploads/test-object", strings.NewReader(content), int64(len(content)), "text/plain"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	signed, err := blobs.PresignGet(ctx, "uploads/test-object", time.Hour)
	if err != nil {
		t.Fatalf("PresignGet failed: %v", err)
	}

	u, err := url.Parse(signed)
	if err != nil {
		t.Fatalf("presigned URL does not parse: %v", err)
	}
	if u.Query().Get("X-Amz-Signature") == "" {
		t.Errorf("Expected signature query parameter in %q", signed)
	}

	resp, err := http.Get(signed)
	if err != nil {
		t.Fatalf("fetch presigned URL: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 from presigned URL, got %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != content {
		t.Errorf("Expected %q, got %q", content, string(body))
	}
}

func TestBlobStore_PresignMissingObjectSignsAnyway(t *testing.T) {
	blobs, _ := fakeS3(t, "shares")

	// Signing never checks existence; the URL fails only at fetch time.
	signed, err := blobs.PresignGet(context.Background(), "uploads/never-stored", time.Hour)
	if err != nil {
		t.Fatalf("PresignGet failed: %v", err)
	}

	resp, err := http.Get(signed)
	if err != nil {
		t.Fatalf("fetch presigned URL: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for missing object, got %d", resp.StatusCode)
	}
}

func TestBlobStore_EmptyKey(t *testing.T) {
	blobs, _ := fakeS3(t, "shares")
	ctx := context.Background()

	if err := blobs.Put(ctx, "", strings.NewReader("x"), 1, ""); err == nil {
		t.Error("Expected error for empty key on Put")
	}
	if _, err := blobs.PresignGet(ctx, "", time.Hour); err == nil {
		t.Error("Expected error for empty key on PresignGet")
	}
}

func TestBlobStore_Check(t *testing.T) {
	blobs, ts := fakeS3(t, "shares")

	if err := blobs.Check(context.Background()); err != nil {
		t.Errorf("Expected healthy check, got %v", err)
	}

	u, _ := url.Parse(ts.URL)
	mc, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("test-access", "test-secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	if err != nil {
		t.Fatalf("minio client: %v", err)
	}
	missing, err := NewBlobStore(mc, "no-such-bucket")
	if err != nil {
		t.Fatalf("blob store: %v", err)
	}
	if err := missing.Check(context.Background()); err == nil {
		t.Error("Expected check failure for missing bucket")
	}
}

func TestNewBlobStore_Validation(t *testing.T) {
	if _, err := NewBlobStore(nil, "bucket"); err == nil {
		t.Error("Expected error for nil client")
	}
	mc := &minio.Client{}
	if _, err := NewBlobStore(mc, ""); err == nil {
		t.Error("Expected error for empty bucket")
	}
}

func TestNewMinioClient_BucketMustExist(t *testing.T) {
	backend := s3mem.New()
	if err := backend.CreateBucket("present"); err != nil {
		t.Fatalf("create bucket: %v", err)
	}
	ts := httptest.NewServer(gofakes3.New(backend).Server())
	defer ts.Close()

	cfg := MinioConfig{
		Endpoint:  ts.URL,
		AccessKey: "test-access",
		SecretKey: "test-secret",
		Region:    "us-east-1",
		Bucket:    "present",
	}
	if _, err := NewMinioClient(context.Background(), cfg); err != nil {
		t.Errorf("Expected client for existing bucket, got %v", err)
	}

	cfg.Bucket = "absent"
	if _, err := NewMinioClient(context.Background(), cfg); err == nil {
		t.Error("Expected error for missing bucket")
	}
}
