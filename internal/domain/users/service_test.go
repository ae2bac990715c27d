package users

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	byExternalID map[string]*User
	seq          int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byExternalID: make(map[string]*User)}
}

func (r *fakeUserRepo) Upsert(_ context.Context, params UpsertParams) (*User, error) {
	for _, other := range r.byExternalID {
		if other.ExternalID != params.ExternalID && strings.EqualFold(other.Email, params.Email) {
			return nil, ErrEmailTaken
		}
	}
	if existing, ok := r.byExternalID[params.ExternalID]; ok {
		existing.Email = params.Email
		existing.DisplayName = params.DisplayName
		existing.Role = params.Role
		copied := *existing
		return &copied, nil
	}
	r.seq++
	user := &User{
		ID:          "user-" + string(rune('0'+r.seq)),
		ExternalID:  params.ExternalID,
		Email:       params.Email,
		DisplayName: params.DisplayName,
		Role:        params.Role,
	}
	r.byExternalID[params.ExternalID] = user
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByExternalID(_ context.Context, externalID string) (*User, error) {
	if user, ok := r.byExternalID[externalID]; ok {
		copied := *user
		return &copied, nil
	}
	return nil, ErrNotFound
}

func TestSyncCreatesUserWithDefaultRole(t *testing.T) {
	service := NewService(newFakeUserRepo(), "admin@localhost.com", zerolog.Nop())

	user, err := service.Sync(context.Background(), SyncParams{
		ExternalID:  "idp-1",
		Email:       "Alice@Example.org",
		DisplayName: "Alice",
	})

	require.NoError(t, err)
	require.Equal(t, "user", user.Role)
	require.Equal(t, "alice@example.org", user.Email, "email is normalized")
}

func TestSyncBootstrapAdminEmail(t *testing.T) {
	service := NewService(newFakeUserRepo(), "admin@localhost.com", zerolog.Nop())

	user, err := service.Sync(context.Background(), SyncParams{
		ExternalID:  "idp-admin",
		Email:       "Admin@Localhost.com",
		DisplayName: "Root",
	})

	require.NoError(t, err)
	require.Equal(t, "admin", user.Role)
}

func TestSyncIsIdempotent(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewService(repo, "admin@localhost.com", zerolog.Nop())

	first, err := service.Sync(context.Background(), SyncParams{ExternalID: "idp-1", Email: "a@example.org", DisplayName: "Alice"})
	require.NoError(t, err)

	second, err := service.Sync(context.Background(), SyncParams{ExternalID: "idp-1", Email: "a@example.org", DisplayName: "Alice Cooper"})
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID, "same identity, same record")
	require.Equal(t, "Alice Cooper", second.DisplayName)
	require.Len(t, repo.byExternalID, 1)
}

func TestSyncRejectsEmailClaimedByOtherIdentity(t *testing.T) {
	repo := newFakeUserRepo()
	service := NewService(repo, "admin@localhost.com", zerolog.Nop())

	_, err := service.Sync(context.Background(), SyncParams{ExternalID: "idp-1", Email: "admin@localhost.com", DisplayName: "First"})
	require.NoError(t, err)

	// A second identity cannot take the same address and ride the bootstrap
	// promotion.
	_, err = service.Sync(context.Background(), SyncParams{ExternalID: "idp-2", Email: "Admin@Localhost.com", DisplayName: "Second"})
	require.ErrorIs(t, err, ErrEmailTaken)
	require.Len(t, repo.byExternalID, 1)
}

func TestSyncStripsMarkupFromDisplayName(t *testing.T) {
	service := NewService(newFakeUserRepo(), "", zerolog.Nop())

	user, err := service.Sync(context.Background(), SyncParams{
		ExternalID:  "idp-1",
		Email:       "a@example.org",
		DisplayName: "<b>Alice</b><script>x</script>",
	})

	require.NoError(t, err)
	require.Equal(t, "Alice", user.DisplayName)
}

func TestGetByExternalIDNotFound(t *testing.T) {
	service := NewService(newFakeUserRepo(), "", zerolog.Nop())

	_, err := service.GetByExternalID(context.Background(), "missing")

	require.ErrorIs(t, err, ErrNotFound)
}
