package wire

import (
	"food-ordering/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireFood(r chi.Router, foodHandler *adaptor.FoodHandler, g guards) {
	r.Route("/api/foods", func(r chi.Router) {
		// Public
		r.Get("/", foodHandler.GetFoods) // ?page=&per_page=&category=
		r.Get("/{id}", foodHandler.GetFood)

		// Admin
		r.With(g.protect, g.admin).Post("/", foodHandler.CreateFood)
		r.With(g.protect, g.admin).Patch("/{id}", foodHandler.UpdateFood)
		r.With(g.protect, g.admin).Delete("/{id}", foodHandler.DeleteFood)
	})
}
