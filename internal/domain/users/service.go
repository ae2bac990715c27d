package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/gatherhub/server/internal/auth"
	"github.com/gatherhub/server/internal/sanitize"
	"github.com/rs/zerolog"
)

// Service syncs identity-provider accounts into the local user store. Users
// are created on first sync and updated on later ones; they are never
// deleted here.
type Service struct {
	repo       Repository
	adminEmail string
	logger     zerolog.Logger
}

func NewService(repo Repository, adminEmail string, logger zerolog.Logger) *Service {
	return &Service{
		repo:       repo,
		adminEmail: adminEmail,
		logger:     logger.With().Str("component", "users").Logger(),
	}
}

type SyncParams struct {
	ExternalID  string
	Email       string
	DisplayName string
}

// Sync upserts the user record for an external identity. The role is always
// derived server-side: the configured bootstrap email gets admin, everyone
// else gets user.
func (s *Service) Sync(ctx context.Context, params SyncParams) (*User, error) {
	role := string(auth.RoleUser)
	if s.adminEmail != "" && strings.EqualFold(params.Email, s.adminEmail) {
		role = string(auth.RoleAdmin)
	}

	user, err := s.repo.Upsert(ctx, UpsertParams{
		ExternalID:  params.ExternalID,
		Email:       strings.ToLower(strings.TrimSpace(params.Email)),
		DisplayName: sanitize.Text(params.DisplayName),
		Role:        role,
	})
	if err != nil {
		return nil, fmt.Errorf("sync user: %w", err)
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("role", user.Role).
		Msg("user synced")
	return user, nil
}

// GetByExternalID resolves the local user for an authenticated identity.
func (s *Service) GetByExternalID(ctx context.Context, externalID string) (*User, error) {
	return s.repo.GetByExternalID(ctx, externalID)
}
