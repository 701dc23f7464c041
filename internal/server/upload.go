package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"
)

// createShareResp is the JSON response returned after a successful upload.
type createShareResp struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// createShareHandler handles POST /shares multipart uploads. The "file"
// part is the payload; the optional "password" field protects the share.
// On success it responds with the share id and the shareable link.
func (cfg Config) createShareHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		if cfg.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxUploadBytes)
		}

		// 32 MiB in memory, larger parts spill to temp files.
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				http.Error(w, "file too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "bad multipart", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer func() { _ = file.Close() }()

		password := r.FormValue("password")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		id, err := cfg.Service.CreateShare(ctx, file, header.Size, header.Filename, header.Header.Get("Content-Type"), password)
		if err != nil {
			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=create_share_failed err=%v", rid, err)

			var se *StorageError
			if errors.As(err, &se) {
				http.Error(w, "upload failed", http.StatusBadGateway)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(createShareResp{
			ID:  id,
			URL: strings.TrimSuffix(cfg.BaseURL, "/") + "/shares/" + id,
		})
	})
}
