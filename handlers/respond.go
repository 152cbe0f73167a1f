package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Mehedi-Hassan-Rauf/project-management/logging"
	"github.com/Mehedi-Hassan-Rauf/project-management/services"
)

// Response is the uniform envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

// writeError classifies a service error into the envelope. Anything not
// matching a known kind is a gateway failure.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Response{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		writeJSON(w, http.StatusForbidden, Response{Success: false, Message: err.Error()})
	case errors.Is(err, services.ErrValidation):
		writeJSON(w, http.StatusBadRequest, Response{Success: false, Message: err.Error()})
	default:
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %v", err)
		writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: err.Error()})
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, Response{Success: false, Message: "Not authenticated"})
}
