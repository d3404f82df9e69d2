package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/oakline/gatehouse/internal/domain/preauth"
	"github.com/oakline/gatehouse/internal/domain/signin"
	"github.com/oakline/gatehouse/internal/repository"
)

var (
	errBadBody  = errors.New("invalid request body")
	errBadQuery = errors.New("invalid query parameter")
)

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"from", r.RemoteAddr,
				"dur", time.Since(start))
		})
	}
}

// decodeOptional decodes a JSON body, tolerating an empty one.
func decodeOptional(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && err != io.EOF {
		return errBadBody
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the core's error taxonomy onto HTTP status codes.
// Validation and transition failures never reached the store; transport
// failures did and surface as gateway errors.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var status int
	switch {
	case errors.Is(err, signin.ErrValidation), errors.Is(err, preauth.ErrValidation),
		errors.Is(err, errBadBody), errors.Is(err, errBadQuery):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, signin.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, signin.ErrStaleReference),
		errors.Is(err, signin.ErrCommentNotFound),
		errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, repository.ErrUnavailable):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
