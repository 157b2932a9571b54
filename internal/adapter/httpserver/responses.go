// Package httpserver contains HTTP handlers and middleware.
//
// It exposes the assessment, recommendation and catalog endpoints and maps
// domain errors onto a single JSON error envelope.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/career-leader/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error, details interface{}) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	case errors.Is(err, domain.ErrCatalogIncomplete):
		code = http.StatusServiceUnavailable
		codeStr = "CATALOG_INCOMPLETE"
	case errors.Is(err, domain.ErrCatalogInvalid):
		code = http.StatusUnprocessableEntity
		codeStr = "CATALOG_INVALID"
	default:
		if r != nil {
			LoggerFrom(r).Error("request failed", "error", err)
		}
		msg = "internal error"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: msg, Details: details}})
}

// writeStatusError writes the envelope with an explicit status, for transport
// level failures that have no domain sentinel.
func writeStatusError(w http.ResponseWriter, status int, message string, details interface{}) {
	writeJSON(w, status, errorEnvelope{Error: apiError{Code: "INVALID_ARGUMENT", Message: message, Details: details}})
}
