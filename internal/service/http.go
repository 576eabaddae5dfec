package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/moneylens/backend/internal/auth"
	"github.com/moneylens/backend/internal/store"
)

// apiError is a client-facing failure with an HTTP status.
type apiError struct {
	status int
	msg    string
}

func (e *apiError) Error() string { return e.msg }

func badRequest(msg string) *apiError {
	return &apiError{status: http.StatusBadRequest, msg: msg}
}

func unavailable(msg string) *apiError {
	return &apiError{status: http.StatusServiceUnavailable, msg: msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses and emits the
// standard {"error": ...} body.
func (s *FinanceService) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.status
	case errors.Is(err, auth.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrPermissionDenied):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	}

	if status >= http.StatusInternalServerError {
		uid, _ := auth.GetUserID(r.Context())
		s.logger.Error("request failed",
			"method", r.Method, "path", r.URL.Path, "user_id", uid, "error", err)
		// Internal details stay out of the response body.
		msg = "internal error"
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeJSON reads a request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid JSON body")
	}
	return nil
}
