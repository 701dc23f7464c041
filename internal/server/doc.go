// Package server implements the HTTP server and the share pipeline for
// filelink. It wires together the HTTP routes, dependencies (database,
// MinIO client), the share service orchestration, and provides lifecycle
// helpers used by tests and the production binary.
package server
