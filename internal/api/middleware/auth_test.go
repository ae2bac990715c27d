package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gatherhub/server/internal/auth"
	"github.com/gatherhub/server/internal/domain/users"
)

type fakeUserRepo struct {
	byExternalID map[string]*users.User
}

func (f *fakeUserRepo) Upsert(_ context.Context, params users.UpsertParams) (*users.User, error) {
	user := &users.User{
		ID:          "local-" + params.ExternalID,
		ExternalID:  params.ExternalID,
		Email:       params.Email,
		DisplayName: params.DisplayName,
		Role:        params.Role,
	}
	f.byExternalID[params.ExternalID] = user
	return user, nil
}

func (f *fakeUserRepo) GetByExternalID(_ context.Context, externalID string) (*users.User, error) {
	user, ok := f.byExternalID[externalID]
	if !ok {
		return nil, users.ErrNotFound
	}
	return user, nil
}

func testManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour, "gatherhub-test")
}

func okHandler(t *testing.T, called *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireIdentityRejectsMissingToken(t *testing.T) {
	called := false
	handler := RequireIdentity(testManager(), "test")(okHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.False(t, called)
}

func TestRequireIdentityRejectsBadToken(t *testing.T) {
	called := false
	handler := RequireIdentity(testManager(), "test")(okHandler(t, &called))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.False(t, called)
}

func TestRequireIdentityStoresClaims(t *testing.T) {
	manager := testManager()
	token, err := manager.Generate("ext-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	var claims *auth.Claims
	handler := RequireIdentity(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = Identity(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, claims)
	require.Equal(t, "ext-1", claims.Subject)
	require.Equal(t, "alice@example.com", claims.Email)
}

func TestRequireUserRejectsUnregisteredIdentity(t *testing.T) {
	manager := testManager()
	token, err := manager.Generate("ext-unknown", "ghost@example.com", "Ghost")
	require.NoError(t, err)

	service := users.NewService(&fakeUserRepo{byExternalID: map[string]*users.User{}}, "", zerolog.Nop())

	called := false
	handler := RequireIdentity(manager, "test")(RequireUser(service, "test")(okHandler(t, &called)))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
	require.False(t, called)
}

func TestRequireUserResolvesActor(t *testing.T) {
	manager := testManager()
	token, err := manager.Generate("ext-1", "alice@example.com", "Alice")
	require.NoError(t, err)

	repo := &fakeUserRepo{byExternalID: map[string]*users.User{
		"ext-1": {ID: "u-1", ExternalID: "ext-1", Email: "alice@example.com", Role: "user"},
	}}
	service := users.NewService(repo, "", zerolog.Nop())

	handler := RequireIdentity(manager, "test")(RequireUser(service, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := Actor(r)
		require.True(t, ok)
		require.Equal(t, "u-1", actor.ID)
		require.Equal(t, "user", actor.Role)
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	handler.ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
}

func TestActorWithoutUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	_, ok := Actor(req)
	require.False(t, ok)
}
