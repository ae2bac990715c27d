package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain/events"
)

const maxBodyBytes = 1 << 20 // 1 MiB request body cap

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "invalid-body", "Invalid request body", err, envFromRequest(r))
		return false
	}
	return true
}

type envKey struct{}

func contextWithEnv(ctx context.Context, env string) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// WithEnvironment tags requests with the runtime environment so error
// responses know whether to expose detail.
func WithEnvironment(env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := contextWithEnv(r.Context(), env)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func envFromRequest(r *http.Request) string {
	if env, ok := r.Context().Value(envKey{}).(string); ok {
		return env
	}
	return "production"
}

// writeDomainError maps domain errors onto HTTP problem responses.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	env := envFromRequest(r)

	var validationErr events.ValidationError
	if errors.As(err, &validationErr) {
		problem.Write(w, r, http.StatusUnprocessableEntity, "validation-error", "Validation failed", err, env,
			problem.WithErrors(map[string]interface{}{validationErr.Field: validationErr.Message}))
		return
	}

	var filterErr events.FilterError
	if errors.As(err, &filterErr) {
		problem.Write(w, r, http.StatusBadRequest, "invalid-parameter", "Invalid query parameter", err, env,
			problem.WithErrors(map[string]interface{}{filterErr.Field: filterErr.Message}))
		return
	}

	switch {
	case errors.Is(err, events.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "not-found", "Event not found", err, env)
	case errors.Is(err, events.ErrForbidden):
		problem.Write(w, r, http.StatusForbidden, "forbidden", "Forbidden", err, env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "server-error", "Server error", err, env)
	}
}
