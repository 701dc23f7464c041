package server

import (
	"context"
	"database/sql"
	"net"
	"net/http"
	"time"
)

// Config holds everything the HTTP layer needs. All dependencies are
// constructed in main and injected here; handlers never build their own.
type Config struct {
	Addr           string // e.g. ":8080"
	BaseURL        string // prefix for share links in responses
	MaxUploadBytes int64  // 0 = no limit

	Service *ShareService
	DB      *sql.DB
	Blobs   *BlobStore
}

type Server struct {
	httpServer *http.Server
}

func New(cfg Config) *Server {
	mux := http.NewServeMux()

	mux.Handle("/shares", cfg.createShareHandler())
	mux.Handle("/shares/", cfg.resolveShareHandler())
	mux.Handle("/health", cfg.healthHandler())
	mux.Handle("/health/live", liveHandler())

	// Wrap middleware: requestID -> logging -> security headers -> mux
	var handler http.Handler = mux
	handler = securityHeadersMiddleware(handler)
	handler = loggingMiddleware(handler)
	handler = requestIDMiddleware(handler)

	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{httpServer: s}
}

func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.httpServer.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
