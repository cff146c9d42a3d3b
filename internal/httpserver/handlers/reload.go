package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
	"github.com/MrSnakeDoc/myquran/internal/logger"
)

type reloadResponse struct {
	Triggered    bool `json:"triggered"`
	CacheFlushed bool `json:"cache_flushed"`
}

// Reload triggers a manual reload of the chapter catalogue.
// ?flush=true also drops the upstream response cache.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := reloadResponse{}

		if r.URL.Query().Get("flush") == "true" && d.Quran != nil {
			d.Quran.FlushCache()
			resp.CacheFlushed = true
			d.Logger.Info("upstream cache flushed via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
		}

		select {
		case d.ReloadTrigger <- struct{}{}:
			resp.Triggered = true
			d.Logger.Info("manual catalogue reload triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
		default:
			d.Logger.Warn("catalogue reload already in progress",
				logger.String("remote_ip", r.RemoteAddr))
		}

		if resp.Triggered {
			writeJSON(w, http.StatusAccepted, resp)
			return
		}
		writeJSON(w, http.StatusTooManyRequests, resp)
	}
}
