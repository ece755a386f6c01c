package wire

import (
	"food-ordering/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser configures auth, profile, location and user admin routes
func wireUser(r chi.Router, handler *adaptor.Handler, g guards) {
	auth, user, location := handler.Auth, handler.User, handler.Location

	r.Route("/api/users", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/signup", auth.Signup)
		r.Post("/login", auth.Login)
		r.Post("/forgotPassword", auth.ForgotPassword)
		r.Patch("/resetPassword", auth.ResetPassword) // Bearer <reset-token>

		// ==================== PROTECTED ROUTES ====================
		r.Group(func(r chi.Router) {
			r.Use(g.protect)

			r.Get("/logout", auth.Logout)
			r.Patch("/updateMyPassword", auth.UpdateMyPassword)

			r.Get("/me", user.GetMe)
			r.Patch("/me", user.UpdateMe)
			r.Delete("/me", user.DeleteMe)

			r.Get("/myLocations", location.GetMyLocations)
			r.Post("/myLocations", location.AddLocation)
			r.Patch("/myLocations/{id}", location.UpdateLocation)
			r.Delete("/myLocations/{id}", location.DeleteLocation)

			// ==================== ADMIN ROUTES ====================
			r.Group(func(r chi.Router) {
				r.Use(g.admin)

				r.Get("/within/{distance}", location.GetLocationsWithin)

				r.Get("/", user.GetAllUsers) // GET /api/users?page=1&per_page=10
				r.Post("/", user.CreateUser)
				r.Get("/{id}", user.GetUser)
				r.Patch("/{id}", user.UpdateUser)
				r.Delete("/{id}", user.DeleteUser)
			})
		})
	})
}
