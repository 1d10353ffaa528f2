package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse represents a standardized error response format.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Errors  []string `json:"errors"`
	Data    any      `json:"data,omitempty"`
}

// WriteError writes a standardized JSON error response to the HTTP response writer.
func WriteError(w http.ResponseWriter, statusCode int, code, message string, errors []string, log *slog.Logger) {
	WriteErrorWithData(w, statusCode, code, message, errors, nil, log)
}

// WriteErrorWithData is WriteError with a payload describing partial results.
func WriteErrorWithData(w http.ResponseWriter, statusCode int, code, message string, errors []string, data any, log *slog.Logger) {
	if errors == nil {
		errors = []string{}
	}
	WriteJSON(w, statusCode, ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  errors,
		Data:    data,
	}, log)
}

// WriteJSON encodes body with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, body any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		// The status line is already on the wire.
		if log != nil {
			log.Error("failed to encode response", "error", err)
		}
	}
}
