package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
)

func Juzs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := d.Reader.JuzList(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func Juz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := pathNumber(r, "id")
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		view, err := d.Reader.JuzDetail(r.Context(), n)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
