package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/four2theizz0/gearz/internal/auth"
	"github.com/four2theizz0/gearz/internal/domain"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorResponse{Success: false, Error: msg})
	if err != nil {
		_, _ = w.Write([]byte(`{"success":false,"error":"internal error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeServiceError maps domain errors onto response codes. Validation errors
// get 400, missing records 404, hold conflicts 409, everything else is an
// upstream failure surfaced as 500 with the original message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrEmailRequired),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPhone),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidInventory),
		errors.Is(err, domain.ErrMissingRequiredField),
		errors.Is(err, domain.ErrInvalidFieldName),
		errors.Is(err, domain.ErrNoExpirationSet),
		errors.Is(err, domain.ErrNoProductsOnHold):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrHoldNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrProductOnHold):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
