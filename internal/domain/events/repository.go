package events

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("event not found")

var ErrForbidden = errors.New("event access forbidden")

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Actor is the authenticated identity performing an operation. It is passed
// explicitly into every core call; there is no ambient session state.
type Actor struct {
	ID   string
	Role string
}

// UserSummary is the display-only projection of a referenced user.
type UserSummary struct {
	ID          string
	DisplayName string
	Email       string
}

type Event struct {
	ID          string
	ULID        string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Visibility  Visibility
	CreatedBy   UserSummary
	Attendees   []UserSummary
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasAttendee reports set membership in the attendee set.
func (e Event) HasAttendee(userID string) bool {
	for _, attendee := range e.Attendees {
		if attendee.ID == userID {
			return true
		}
	}
	return false
}

type CreateParams struct {
	ULID        string
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	Location    string
	Visibility  Visibility
	CreatedByID string
}

// UpdateParams carries a partial field set; nil means "leave unchanged".
// Creator and attendees are not updatable through this path.
type UpdateParams struct {
	Title       *string
	Description *string
	StartDate   *time.Time
	EndDate     *time.Time
	Location    *string
	Visibility  *Visibility
}

// ScopeKind tags the mandatory visibility clause of a list query.
type ScopeKind string

const (
	// ScopeAll places no visibility restriction (admin without filter).
	ScopeAll ScopeKind = "all"
	// ScopeVisibility restricts to one exact visibility (admin filter knob).
	ScopeVisibility ScopeKind = "visibility"
	// ScopePublicOrOwned restricts to public events plus the actor's own
	// private events (every non-admin query).
	ScopePublicOrOwned ScopeKind = "public_or_owned"
)

type Scope struct {
	Kind       ScopeKind
	Visibility Visibility // set for ScopeVisibility
	OwnerID    string     // set for ScopePublicOrOwned
}

type SortOrder string

// SortStartDateAsc is the only supported order: earliest event first.
const SortStartDateAsc SortOrder = "start_date_asc"

// Query is the typed descriptor the repository executes. It is built only by
// BuildListQuery; caller-supplied filter text never reaches the repository
// unwrapped.
type Query struct {
	Scope  Scope
	Search string // case-insensitive substring over title, description, location
	Sort   SortOrder
	Skip   int
	Limit  int
}

type Filters struct {
	Visibility Visibility // optional; honored for admins only
	Search     string
}

type Pagination struct {
	Page  int
	Limit int
}

type Repository interface {
	List(ctx context.Context, query Query) ([]Event, error)
	Count(ctx context.Context, query Query) (int, error)
	GetByULID(ctx context.Context, ulid string) (*Event, error)
	Create(ctx context.Context, params CreateParams) (*Event, error)
	Update(ctx context.Context, id string, params UpdateParams) error
	Delete(ctx context.Context, id string) error
	AddAttendee(ctx context.Context, eventID, userID string) error
	RemoveAttendee(ctx context.Context, eventID, userID string) error

	// WithTx runs fn against a repository whose operations share one
	// transaction, committing on nil and rolling back on error. Mutations
	// that pair a read with a write run inside it.
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
}
