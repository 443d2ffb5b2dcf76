package handlers

import (
	"context"
	"net/http"
)

// Pinger reports whether the backing store is reachable.
type Pinger func(ctx context.Context) error

// Healthz answers liveness probes, pinging the store when ping is set.
func Healthz(ping Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				writeError(w, err.Error())
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
