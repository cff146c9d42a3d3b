package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
	"github.com/MrSnakeDoc/myquran/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerContent) }

func registerContent(r chi.Router, d deps.Deps) {
	r.Get("/chapters", handlers.Chapters(d))
	r.Get("/chapters/{id}", handlers.Chapter(d))
	r.Get("/juzs", handlers.Juzs(d))
	r.Get("/juzs/{id}", handlers.Juz(d))
	r.Get("/pages/{page}", handlers.Page(d))
	r.Get("/search", handlers.Search(d))
	r.Get("/verses/{key}/words", handlers.Words(d))
}
