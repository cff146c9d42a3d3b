package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
)

// Page returns one mushaf page, 1..604.
func Page(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := pathNumber(r, "page")
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		view, err := d.Reader.Page(r.Context(), n)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
