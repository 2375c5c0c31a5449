// Package httpserver contains the HTTP handlers and middleware of the
// evaluation API. It keeps HTTP concerns out of the usecase layer: requests
// are decoded and validated here, errors are mapped onto the domain error
// taxonomy, and responses are JSON envelopes.
package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, _ *http.Request, err error, details any) {
	code := http.StatusInternalServerError
	codeStr := "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		code = http.StatusBadRequest
		codeStr = "INVALID_ARGUMENT"
	case errors.Is(err, domain.ErrInvalidWeights):
		code = http.StatusBadRequest
		codeStr = "INVALID_WEIGHTS"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		code = http.StatusUnsupportedMediaType
		codeStr = "UNSUPPORTED_FORMAT"
	case errors.Is(err, domain.ErrExtractionFailed):
		code = http.StatusUnprocessableEntity
		codeStr = "EXTRACTION_FAILED"
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
		codeStr = "NOT_FOUND"
	case errors.Is(err, domain.ErrBackendUnavailable):
		code = http.StatusServiceUnavailable
		codeStr = "BACKEND_UNAVAILABLE"
	case errors.Is(err, context.DeadlineExceeded):
		code = http.StatusGatewayTimeout
		codeStr = "TIMEOUT"
	}
	writeJSON(w, code, errorEnvelope{Error: apiError{Code: codeStr, Message: err.Error(), Details: details}})
}
