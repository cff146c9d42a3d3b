package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
)

// Search runs a full-text search over ?q=. It never fails on an upstream
// error; the view comes back flagged as degraded instead.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := d.Reader.Search(r.Context(), r.URL.Query().Get("q"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
