package wire

import (
	"net/http"

	"food-ordering/internal/adaptor"
	"food-ordering/internal/data/entity"
	"food-ordering/internal/data/repository"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/middleware"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

var errNoRoute = apperror.NotFound("This route does not exist on this server.")

// App menyimpan semua dependencies
type App struct {
	Router *chi.Mux
}

// Wiring menginisialisasi semua dependencies
func Wiring(
	repo *repository.Repository,
	tokens *utils.TokenManager,
	passwords usecase.PasswordVerifier,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, tokens, passwords, config, logger)
	handler := adaptor.NewHandler(service, config.App.Debug, logger)

	return &App{
		Router: setupRouter(handler, repo, tokens, config, logger),
	}
}

// guards are the per-route middleware shared by the route files.
type guards struct {
	protect func(http.Handler) http.Handler
	admin   func(http.Handler) http.Handler
	user    func(http.Handler) http.Handler
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	tokens *utils.TokenManager,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger, config.App.Debug))

	g := guards{
		protect: middleware.Protect(tokens, repo.User, logger),
		admin:   middleware.Authorize(logger, entity.RoleAdmin),
		user:    middleware.Authorize(logger, entity.RoleUser),
	}

	wireUser(r, handler, g)
	wireFood(r, handler.Food, g)
	wireOrder(r, handler.Order, g)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	notFound := func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseError(w, errNoRoute, false)
	}
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	return r
}
