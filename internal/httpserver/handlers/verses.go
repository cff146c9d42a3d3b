package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
)

// Words returns the word-by-word breakdown of the verse {key}, e.g. 2:255.
func Words(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := d.Reader.Words(r.Context(), chi.URLParam(r, "key"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
