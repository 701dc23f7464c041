package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"filelink/internal/db"
	"filelink/internal/server"
)

func main() {
	addr := getenvDefault("FLK_ADDR", ":8080")
	baseURL := getenvDefault("FLK_BASE_URL", "http://localhost:8080")

	minioCfg := server.MinioConfig{
		Endpoint:  os.Getenv("FLK_S3_ENDPOINT"),
		AccessKey: os.Getenv("FLK_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("FLK_S3_SECRET_KEY"),
		Region:    os.Getenv("FLK_S3_REGION"),
		Bucket:    os.Getenv("FLK_BUCKET"),
	}
	dsn := os.Getenv("DATABASE_URL")

	maxUpload := int64(0)
	if raw := os.Getenv("FLK_MAX_UPLOAD_BYTES"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			log.Printf("service=backend msg=%q err=%v", "bad FLK_MAX_UPLOAD_BYTES", err)
			os.Exit(1)
		}
		maxUpload = n
	}

	// Fail fast on broken configuration, reporting every problem at once.
	v := server.NewConfigValidator()
	v.ValidateEndpoint("FLK_S3_ENDPOINT", minioCfg.Endpoint)
	v.RequireNonEmpty("FLK_S3_ACCESS_KEY", minioCfg.AccessKey)
	v.RequireNonEmpty("FLK_S3_SECRET_KEY", minioCfg.SecretKey)
	v.RequireNonEmpty("FLK_BUCKET", minioCfg.Bucket)
	v.RequireNonEmpty("DATABASE_URL", dsn)
	v.ValidateBaseURL("FLK_BASE_URL", baseURL)
	if v.HasErrors() {
		log.Printf("service=backend msg=%q\n%s", "invalid_configuration", v.ErrorString())
		os.Exit(1)
	}

	// Database
	dbConn, err := server.OpenDB(dsn)
	if err != nil {
		log.Printf("service=backend msg=%q err=%v", "db_connect_failed", err)
		os.Exit(1)
	}
	defer func() { _ = dbConn.Close() }()

	// Run migrations
	log.Printf("service=backend msg=%q", "running_migrations")
	if err := db.RunMigrations(dbConn); err != nil {
		log.Printf("service=backend msg=%q err=%v", "migration_failed", err)
		os.Exit(1)
	}
	log.Printf("service=backend msg=%q", "migrations_complete")

	// Object storage
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	mc, err := server.NewMinioClient(ctx, minioCfg)
	cancel()
	if err != nil {
		log.Printf("service=backend msg=%q err=%v", "minio_connect_failed", err)
		os.Exit(1)
	}

	blobs, err := server.NewBlobStore(mc, minioCfg.Bucket)
	if err != nil {
		log.Printf("service=backend msg=%q err=%v", "blobstore_init_failed", err)
		os.Exit(1)
	}

	svc := server.NewShareService(blobs, server.NewShareStore(dbConn))

	srv := server.New(server.Config{
		Addr:           addr,
		BaseURL:        baseURL,
		MaxUploadBytes: maxUpload,
		Service:        svc,
		DB:             dbConn,
		Blobs:          blobs,
	})

	// Start the HTTP server in a background goroutine.
	// This allows us to listen for OS signals while the server runs.
	errCh := make(chan error, 1)
	go func() {
		log.Printf("service=backend msg=%q addr=%s", "starting", addr)
		errCh <- srv.Start()
	}()

	// Graceful shutdown on SIGINT (Ctrl+C) or SIGTERM (container stop).
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Block until either a shutdown signal is received or the server errors.
	select {
	case sig := <-sigCh:
		log.Printf("service=backend msg=%q signal=%s", "shutting_down", sig.String())
		// Give the server 5 seconds to finish in-flight requests.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("service=backend msg=%q err=%v", "shutdown_error", err)
			os.Exit(1)
		}
		log.Printf("service=backend msg=%q", "shutdown_complete")
	case err := <-errCh:
		if err != nil {
			log.Printf("service=backend msg=%q err=%v", "server_error", err)
			os.Exit(1)
		}
	}
}

// getenvDefault reads an environment variable and returns a default value if not set.
func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
