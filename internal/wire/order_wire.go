package wire

import (
	"food-ordering/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireOrder: every order route needs a logged in user
func wireOrder(r chi.Router, orderHandler *adaptor.OrderHandler, g guards) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(g.protect)

		r.With(g.user).Post("/", orderHandler.CreateOrder)
		r.With(g.user).Get("/mine", orderHandler.GetMyOrders)
		r.With(g.user).Patch("/{id}", orderHandler.ReviewOrder)

		r.Group(func(r chi.Router) {
			r.Use(g.admin)

			r.Get("/", orderHandler.GetAllOrders)
			r.Get("/ratingAverage", orderHandler.RatingStats)
			r.Get("/ratingAverage/{year}/{month}", orderHandler.RatingStats)
			r.Get("/top/{n}", orderHandler.TopOrders)
			r.Get("/top/{n}/{year}/{month}", orderHandler.TopOrders)
		})
	})
}
