package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
	"github.com/MrSnakeDoc/myquran/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/bookmarks", func(r chi.Router) {
		r.Get("/", handlers.ListBookmarks(d))
		r.Post("/", handlers.SaveBookmark(d))
		r.Delete("/", handlers.ClearBookmarks(d))
		r.Post("/toggle", handlers.ToggleBookmark(d))
		r.Get("/{chapter}/{verse}", handlers.BookmarkExists(d))
		r.Delete("/{chapter}/{verse}", handlers.RemoveBookmark(d))
	})
}
