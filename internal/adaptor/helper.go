package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"food-ordering/internal/data/entity"
	"food-ordering/internal/dto/request"
	"food-ordering/pkg/apperror"
	"food-ordering/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// responder is shared by every handler.
type responder struct {
	log   *zap.Logger
	debug bool
}

// handleServiceError logs err and answers with its apperror kind.
func (h responder) handleServiceError(w http.ResponseWriter, err error, operation string) {
	appErr := apperror.From(err)
	if appErr.Operational() {
		h.log.Warn(operation+" failed",
			zap.String("kind", appErr.Kind.String()),
			zap.Error(err))
	} else {
		h.log.Error("Failed to "+operation,
			zap.String("kind", appErr.Kind.String()),
			zap.Error(err))
	}
	utils.ResponseError(w, err, h.debug)
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func (h responder) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	h.log.Warn("Invalid request body", zap.String("path", r.URL.Path), zap.Error(err))
	utils.ResponseBadRequest(w, "Invalid request body", nil)
	return false
}

// currentUser returns the id stored by middleware.Protect.
func (h responder) currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseError(w, apperror.Authentication("You are not logged in! Please log in to get access."), false)
		return uuid.Nil, false
	}
	return userID, true
}

func paginated(r *http.Request) request.PaginatedRequest {
	query := r.URL.Query()
	return request.NewPaginatedRequest(query.Get("page"), query.Get("per_page"))
}

// monthPeriod reads the optional {year}/{month} path params.
func monthPeriod(r *http.Request) (*entity.DateRange, error) {
	rawYear, rawMonth := chi.URLParam(r, "year"), chi.URLParam(r, "month")
	if rawYear == "" && rawMonth == "" {
		return nil, nil
	}

	year, err := strconv.Atoi(rawYear)
	if err != nil {
		return nil, apperror.Validation("Invalid year.")
	}
	month, err := strconv.Atoi(rawMonth)
	if err != nil {
		return nil, apperror.Validation("Month should be a value between 1 and 12.")
	}

	period, err := entity.MonthRange(year, month)
	if err != nil {
		return nil, err
	}
	return &period, nil
}
