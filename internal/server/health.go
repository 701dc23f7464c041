package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// componentHealth is the per-dependency portion of the health response.
type componentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

type healthResp struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Components map[string]componentHealth `json:"components"`
}

// healthHandler probes the database and the object-store bucket and
// reports per-component status. Any component down yields 503.
func (cfg Config) healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResp{
			Status:     "ok",
			Timestamp:  time.Now().UTC(),
			Components: make(map[string]componentHealth),
		}

		dbHealth := componentHealth{Status: "up"}
		if err := cfg.DB.PingContext(ctx); err != nil {
			dbHealth = componentHealth{Status: "down", Message: err.Error()}
			resp.Status = "unhealthy"
		}
		resp.Components["database"] = dbHealth

		blobHealth := componentHealth{Status: "up"}
		if err := cfg.Blobs.Check(ctx); err != nil {
			blobHealth = componentHealth{Status: "down", Message: err.Error()}
			resp.Status = "unhealthy"
		}
		resp.Components["object_store"] = blobHealth

		code := http.StatusOK
		if resp.Status != "ok" {
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	})
}

// liveHandler answers as long as the process runs.
func liveHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	})
}
