package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
	"github.com/MrSnakeDoc/myquran/internal/httpserver/handlers"
)

func init() { RegisterAPI(registerPlayer) }

func registerPlayer(r chi.Router, d deps.Deps) {
	r.Route("/player", func(r chi.Router) {
		r.Post("/", handlers.CreatePlayer(d))
		r.Get("/{id}", handlers.GetPlayer(d))
		r.Delete("/{id}", handlers.DeletePlayer(d))
		r.Post("/{id}/{action}", handlers.PlayerAction(d))
	})
}
