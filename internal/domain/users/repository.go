package users

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("user not found")

// ErrEmailTaken marks an email already claimed by a different external
// identity. Emails are unique across accounts; without that, several
// identities could register the bootstrap admin address and all be promoted.
var ErrEmailTaken = errors.New("email already registered")

type User struct {
	ID          string
	ExternalID  string
	Email       string
	DisplayName string
	Role        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// UpsertParams is keyed by ExternalID; repeated syncs for the same identity
// update the record in place.
type UpsertParams struct {
	ExternalID  string
	Email       string
	DisplayName string
	Role        string
}

type Repository interface {
	Upsert(ctx context.Context, params UpsertParams) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
}
