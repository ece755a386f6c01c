package utils

import (
	"encoding/json"
	"net/http"

	"food-ordering/pkg/apperror"

	"go.uber.org/zap"
)

type Response struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// debugError is the extra payload echoed in development mode.
type debugError struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
	Stack string `json:"stack,omitempty"`
}

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, code int, status bool, message string, data, errors any) {
	response := Response{
		Status:  status,
		Message: message,
		Data:    data,
		Errors:  errors,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusOK, true, message, data, nil)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, message string, data any) {
	ResponseJSON(w, http.StatusCreated, true, message, data, nil)
}

// ------------- Error responses -------------

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string, errors any) {
	ResponseJSON(w, http.StatusBadRequest, false, message, nil, errors)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusUnauthorized, false, message, nil, nil)
}

// returns 403 Forbidden
func ResponseForbidden(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusForbidden, false, message, nil, nil)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusNotFound, false, message, nil, nil)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseJSON(w, http.StatusInternalServerError, false, message, nil, nil)
}

// ResponseError writes err using its apperror kind. Operational errors keep
// their message; anything else is answered generically unless debug is set,
// in which case the raw error and a stack trace are echoed.
func ResponseError(w http.ResponseWriter, err error, debug bool) {
	appErr := apperror.From(err)
	code := appErr.Kind.Status()

	if appErr.Operational() {
		var fields any
		if len(appErr.Fields) > 0 {
			fields = appErr.Fields
		}
		ResponseJSON(w, code, false, appErr.Message, nil, fields)
		return
	}

	if debug {
		ResponseJSON(w, code, false, appErr.Message, nil, debugError{
			Kind:  appErr.Kind.String(),
			Error: err.Error(),
			Stack: zap.Stack("stack").String,
		})
		return
	}

	ResponseJSON(w, code, false, "Some unexpected error happened.", nil, nil)
}
