package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/auth"
	"github.com/gatherhub/server/internal/domain/events"
	"github.com/gatherhub/server/internal/domain/users"
)

type contextKeyAuth string

const (
	claimsKey contextKeyAuth = "identityClaims"
	userKey   contextKeyAuth = "currentUser"
)

// RequireIdentity validates the bearer token and stores the identity claims
// in the request context. It does not require a local user record; the
// register endpoint runs behind this alone.
func RequireIdentity(manager *auth.JWTManager, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil {
				problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, env)
				return
			}

			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Missing bearer token", err, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Invalid token", err, env)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser resolves the identity claims to a local user record and stores
// it in the context. Identities that never registered are rejected.
func RequireUser(service *users.Service, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := Identity(r)
			if claims == nil || service == nil {
				problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, env)
				return
			}

			user, err := service.GetByExternalID(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, users.ErrNotFound) {
					problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unknown user, register first", err, env)
					return
				}
				problem.Write(w, r, http.StatusInternalServerError, "server-error", "Server error", err, env)
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Identity returns the validated token claims, or nil.
func Identity(r *http.Request) *auth.Claims {
	if r == nil {
		return nil
	}
	if claims, ok := r.Context().Value(claimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// CurrentUser returns the resolved local user, or nil.
func CurrentUser(r *http.Request) *users.User {
	if r == nil {
		return nil
	}
	if user, ok := r.Context().Value(userKey).(*users.User); ok {
		return user
	}
	return nil
}

// Actor builds the domain actor from the resolved user. ok is false when no
// user is attached to the request.
func Actor(r *http.Request) (events.Actor, bool) {
	user := CurrentUser(r)
	if user == nil {
		return events.Actor{}, false
	}
	return events.Actor{ID: user.ID, Role: user.Role}, true
}
