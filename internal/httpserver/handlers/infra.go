package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
)

type componentStatus struct {
	OK         bool   `json:"ok"`
	Backend    string `json:"backend,omitempty"`
	Count      *int   `json:"count,omitempty"`
	LastReload string `json:"last_reload,omitempty"`
	Impact     string `json:"impact,omitempty"`
	Error      string `json:"error,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of the bookmark backend, chapter catalogue,
// upstream response cache and player sessions.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		components := map[string]componentStatus{
			"storage":  checkStorage(r.Context(), d),
			"catalog":  catalogStatus(d),
			"cache":    cacheStatus(d),
			"sessions": sessionsStatus(d),
		}

		writeJSON(w, http.StatusOK, infraResponse{
			Mode:       determineMode(components),
			Components: components,
		})
	}
}

func determineMode(components map[string]componentStatus) string {
	// Bookmarks unavailable = critical, the only local state we own
	if storage, exists := components["storage"]; exists && !storage.OK {
		return "critical"
	}

	// Catalogue incomplete = degraded, chapter names fall back to numbers
	if catalog, exists := components["catalog"]; exists && !catalog.OK {
		return "degraded"
	}

	return "ok"
}

func checkStorage(ctx context.Context, d deps.Deps) componentStatus {
	if d.Bookmarks == nil {
		return componentStatus{OK: false, Impact: "bookmarks-disabled", Error: "store not initialized"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := componentStatus{OK: true, Backend: d.Bookmarks.Backend()}
	if err := d.Bookmarks.Ping(ctx); err != nil {
		status.OK = false
		status.Impact = "bookmarks-disabled"
		status.Error = err.Error()
		return status
	}
	n := d.Bookmarks.Count(ctx)
	status.Count = &n
	return status
}

func catalogStatus(d deps.Deps) componentStatus {
	n := d.Chapters.Count()
	status := componentStatus{
		OK:         d.Chapters.Complete(),
		Count:      &n,
		LastReload: formatReload(d.Chapters.GetLastReload()),
	}
	if d.Catalog != nil {
		if _, err := d.Catalog.Status(); err != nil {
			status.Error = err.Error()
		}
	}
	if !status.OK {
		status.Impact = "chapter-names-fetched-per-request"
	}
	return status
}

func cacheStatus(d deps.Deps) componentStatus {
	if d.Quran == nil {
		return componentStatus{OK: true, Impact: "cache-unavailable"}
	}
	n := d.Quran.CachedResponses()
	return componentStatus{OK: true, Count: &n}
}

func sessionsStatus(d deps.Deps) componentStatus {
	n := d.Sessions.Count()
	return componentStatus{OK: true, Count: &n}
}

func formatReload(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Format("2006-01-02 15:04:05")
}
