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

// resolveStateResp is the JSON body for the password prompt states.
type resolveStateResp struct {
	State string `json:"state"`
	Error bool   `json:"error,omitempty"`
}

// resolveShareHandler handles GET and POST /shares/{id}. A protected
// share prompts for a password; the POST retry carries it as the
// "password" form field. Granted access redirects to a presigned URL.
//
// Unknown ids answer 404 while password states answer 401. That makes
// share ids enumerable in principle; ids are random UUIDs, so the
// clearer UX wins here.
func (cfg Config) resolveShareHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/shares/")
		if id == "" || strings.Contains(id, "/") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}

		password := r.FormValue("password")

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		res, err := cfg.Service.ResolveShare(ctx, id, password)
		if err != nil {
			if errors.Is(err, ErrShareNotFound) {
				http.Error(w, "invalid or expired link", http.StatusNotFound)
				return
			}

			rid := RequestIDFromContext(r.Context())
			log.Printf("rid=%s msg=resolve_share_failed id=%s err=%v", rid, id, err)

			var se *StorageError
			if errors.As(err, &se) {
				http.Error(w, "storage error", http.StatusBadGateway)
				return
			}
			http.Error(w, "db error", http.StatusInternalServerError)
			return
		}

		switch res.State {
		case PasswordRequired:
			writeResolveState(w, resolveStateResp{State: res.State.String()})
		case PasswordIncorrect:
			writeResolveState(w, resolveStateResp{State: res.State.String(), Error: true})
		case Delivered:
			http.Redirect(w, r, res.URL, http.StatusSeeOther)
		default:
			http.Error(w, "server error", http.StatusInternalServerError)
		}
	})
}

func writeResolveState(w http.ResponseWriter, body resolveStateResp) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(body)
}
