package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
)

// Chapters lists the 114 chapters.
func Chapters(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := d.Reader.ChapterList(r.Context())
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// Chapter returns one chapter with its verses, translation, commentary and audio.
func Chapter(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathNumber(r, "id")
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		view, err := d.Reader.ChapterDetail(r.Context(), id)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}
