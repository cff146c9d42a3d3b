package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
	"github.com/MrSnakeDoc/myquran/internal/logger"
)

type readyzResponse struct {
	Ready   bool   `json:"ready"`
	Storage string `json:"storage"`
	Error   string `json:"error,omitempty"`
}

// Readyz is ready once the bookmark backend answers a ping.
// Upstream APIs are not probed: views degrade on their own.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := readyzResponse{Ready: true, Storage: d.Bookmarks.Backend()}
		status := http.StatusOK
		if err := d.Bookmarks.Ping(ctx); err != nil {
			d.Logger.Warn("readiness check failed",
				logger.String("storage", resp.Storage),
				logger.Error(err))
			resp.Ready = false
			resp.Error = err.Error()
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, resp)
	}
}
