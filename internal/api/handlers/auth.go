package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gatherhub/server/internal/api/middleware"
	"github.com/gatherhub/server/internal/api/problem"
	"github.com/gatherhub/server/internal/domain/users"
)

// AuthHandler syncs identity-provider accounts and serves the profile.
type AuthHandler struct {
	service *users.Service
}

func NewAuthHandler(service *users.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toUserResponse(u users.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

// Register handles POST /api/v1/auth/register. It runs behind identity
// validation only; the local user record is created here, so requiring one
// would lock new users out. Email and display name default to the token
// claims; an optional body overrides them. Calling it again refreshes the
// record.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	claims := middleware.Identity(r)
	if claims == nil {
		problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, envFromRequest(r))
		return
	}

	params := users.SyncParams{
		ExternalID:  claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}
	if r.ContentLength > 0 {
		var body registerRequest
		if !decodeJSON(w, r, &body) {
			return
		}
		if body.Email != "" {
			params.Email = body.Email
		}
		if body.DisplayName != "" {
			params.DisplayName = body.DisplayName
		}
	}

	user, err := h.service.Sync(r.Context(), params)
	if err != nil {
		if errors.Is(err, users.ErrEmailTaken) {
			problem.Write(w, r, http.StatusConflict, "email-taken", "Email already registered", err, envFromRequest(r))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, "server-error", "Server error", err, envFromRequest(r))
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(*user))
}

// Profile handles GET /api/v1/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)
	if user == nil {
		problem.Write(w, r, http.StatusUnauthorized, "unauthorized", "Unauthorized", problem.ErrUnauthorized, envFromRequest(r))
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(*user))
}
