package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gatherhub/server/internal/domain/users"
)

var _ users.Repository = (*UserRepository)(nil)

type userRow struct {
	ID          pgtype.UUID
	ExternalID  string
	Email       string
	DisplayName string
	Role        string
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

func scanUserRow(row pgx.Row) (*users.User, error) {
	var r userRow
	err := row.Scan(
		&r.ID,
		&r.ExternalID,
		&r.Email,
		&r.DisplayName,
		&r.Role,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user := &users.User{
		ID:          uuidString(r.ID),
		ExternalID:  r.ExternalID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		Role:        r.Role,
	}
	if r.CreatedAt.Valid {
		user.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		user.UpdatedAt = r.UpdatedAt.Time
	}
	return user, nil
}

const userColumns = `id, external_id, email, display_name, role, created_at, updated_at`

// Upsert inserts or refreshes the record for an external identity.
func (r *UserRepository) Upsert(ctx context.Context, params users.UpsertParams) (*users.User, error) {
	user, err := scanUserRow(r.pool.QueryRow(ctx, fmt.Sprintf(`
INSERT INTO users (external_id, email, display_name, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (external_id) DO UPDATE
   SET email = EXCLUDED.email,
       display_name = EXCLUDED.display_name,
       role = EXCLUDED.role,
       updated_at = now()
RETURNING %s
`, userColumns),
		params.ExternalID,
		params.Email,
		params.DisplayName,
		params.Role,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && pgErr.ConstraintName == "idx_users_email_lower" {
			return nil, users.ErrEmailTaken
		}
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*users.User, error) {
	user, err := scanUserRow(r.pool.QueryRow(ctx, fmt.Sprintf(`
SELECT %s FROM users WHERE external_id = $1
`, userColumns), externalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
