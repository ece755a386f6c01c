package adaptor

import (
	"net/http"
	"strconv"

	"food-ordering/internal/dto/request"
	"food-ordering/internal/usecase"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type LocationHandler struct {
	responder
	service usecase.LocationService
}

func NewLocationHandler(service usecase.LocationService, debug bool, log *zap.Logger) *LocationHandler {
	return &LocationHandler{
		responder: responder{log: log.With(zap.String("handler", "location")), debug: debug},
		service:   service,
	}
}

// GetMyLocations handles GET /api/users/myLocations
func (h *LocationHandler) GetMyLocations(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	locations, err := h.service.GetMyLocations(r.Context(), userID)
	if err != nil {
		h.handleServiceError(w, err, "get my locations")
		return
	}

	utils.ResponseSuccess(w, "success", locations)
}

// AddLocation handles POST /api/users/myLocations
func (h *LocationHandler) AddLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateLocationRequest
	if !h.decode(w, r, &req) {
		return
	}

	location, err := h.service.AddLocation(r.Context(), userID, &req)
	if err != nil {
		h.handleServiceError(w, err, "add location")
		return
	}

	utils.ResponseCreated(w, "Location added", location)
}

// UpdateLocation handles PATCH /api/users/myLocations/{id}
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateLocationRequest
	if !h.decode(w, r, &req) {
		return
	}

	location, err := h.service.UpdateLocation(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		h.handleServiceError(w, err, "update location")
		return
	}

	utils.ResponseSuccess(w, "Location updated", location)
}

// DeleteLocation handles DELETE /api/users/myLocations/{id}
func (h *LocationHandler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteLocation(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		h.handleServiceError(w, err, "delete location")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetLocationsWithin handles GET /api/users/within/{distance} (admin)
func (h *LocationHandler) GetLocationsWithin(w http.ResponseWriter, r *http.Request) {
	distance, err := strconv.ParseFloat(chi.URLParam(r, "distance"), 64)
	if err != nil {
		h.handleServiceError(w, apperror.Validation("Distance must be a number of kilometres."), "locations within")
		return
	}

	locations, err := h.service.GetLocationsWithin(r.Context(), distance)
	if err != nil {
		h.handleServiceError(w, err, "locations within")
		return
	}

	utils.ResponseSuccess(w, "success", locations)
}
