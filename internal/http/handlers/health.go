package handlers

import (
	"context"
	"net/http"
	"time"
)

// Health reports liveness and, when db is set, database reachability.
func Health(db interface{ Ping(context.Context) error }) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{"status": "ok"}
		code := http.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				status["status"] = "degraded"
				status["db"] = err.Error()
				code = http.StatusServiceUnavailable
			}
		}
		writeJSON(w, r, code, status)
	}
}
