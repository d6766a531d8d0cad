package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"vibin_discovery/services"
)

// requestTimeout bounds the store work behind one API request
const requestTimeout = 5 * time.Second

// Error codes written in {"error": "<code>"} bodies
const (
	CodeUnauthorized   = "unauthorized"
	CodeForbidden      = "forbidden"
	CodeNotEligible    = "not_eligible"
	CodeNotFound       = "not_found"
	CodeInvalidRequest = "invalid_request"
	CodeInternal       = "internal"
)

// WriteJSONResponse writes payload as JSON with the given status
func WriteJSONResponse(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// WriteError writes an {"error": code} body
func WriteError(w http.ResponseWriter, status int, code string) {
	WriteJSONResponse(w, status, map[string]string{"error": code})
}

// statusFor maps service errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrIneligible):
		return http.StatusUnprocessableEntity, CodeNotEligible
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, services.ErrInvalidSwipe), errors.Is(err, services.ErrInvalidPreferences):
		return http.StatusBadRequest, CodeInvalidRequest
	case errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized, CodeUnauthorized
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

// writeServiceError logs unexpected failures and writes the mapped error body.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		log.Error(msg, zap.Error(err))
	} else {
		log.Debug(msg, zap.Error(err), zap.Int("status", status))
	}
	WriteError(w, status, code)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

// HealthCheckHandler provides a basic health check
func HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "healthy"})
}
