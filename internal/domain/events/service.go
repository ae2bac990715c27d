package events

import (
	"context"
	"fmt"

	"github.com/gatherhub/server/internal/api/pagination"
	"github.com/gatherhub/server/internal/domain/ids"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListResult struct {
	Events     []Event
	Pagination pagination.Meta
}

// List returns one page of events visible to the actor. The total count is
// computed over the same query descriptor as the page, so pagination metadata
// always reflects the applied filters.
func (s *Service) List(ctx context.Context, actor Actor, filters Filters, p Pagination) (ListResult, error) {
	query := BuildListQuery(actor, filters, p)

	items, err := s.repo.List(ctx, query)
	if err != nil {
		return ListResult{}, err
	}
	total, err := s.repo.Count(ctx, query)
	if err != nil {
		return ListResult{}, err
	}

	return ListResult{
		Events:     items,
		Pagination: pagination.NewMeta(p.Page, p.Limit, total),
	}, nil
}

// Get fetches one event by ULID. A private event the actor cannot see yields
// ErrForbidden rather than ErrNotFound; the 403/404 distinction is part of
// the API contract.
func (s *Service) Get(ctx context.Context, actor Actor, ulid string) (*Event, error) {
	event, err := s.repo.GetByULID(ctx, ulid)
	if err != nil {
		return nil, err
	}
	if !CanRead(actor, *event) {
		return nil, ErrForbidden
	}
	return event, nil
}

// Create stores a new event owned by the actor with an empty attendee set.
func (s *Service) Create(ctx context.Context, actor Actor, input EventInput) (*Event, error) {
	params, err := ValidateCreateInput(input)
	if err != nil {
		return nil, err
	}

	ulid, err := ids.NewULID()
	if err != nil {
		return nil, fmt.Errorf("mint event id: %w", err)
	}
	params.ULID = ulid
	params.CreatedByID = actor.ID

	var created *Event
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		var txErr error
		created, txErr = repo.Create(ctx, params)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies a partial field edit. Creator and attendee set are not
// reachable through this path. The fetch, cross-field validation against the
// stored record, write and reload share one transaction.
func (s *Service) Update(ctx context.Context, actor Actor, ulid string, input UpdateInput) (*Event, error) {
	var updated *Event
	err := s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		event, err := repo.GetByULID(ctx, ulid)
		if err != nil {
			return err
		}
		if !CanWrite(actor, *event) {
			return ErrForbidden
		}

		params, err := ValidateUpdateInput(input, *event)
		if err != nil {
			return err
		}

		if err := repo.Update(ctx, event.ID, params); err != nil {
			return err
		}
		updated, err = repo.GetByULID(ctx, ulid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the event record. Admin only; creators cannot delete their
// own events.
func (s *Service) Delete(ctx context.Context, actor Actor, ulid string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		event, err := repo.GetByULID(ctx, ulid)
		if err != nil {
			return err
		}
		if !CanDelete(actor) {
			return ErrForbidden
		}
		return repo.Delete(ctx, event.ID)
	})
}

// ToggleAttendance flips the actor's membership in the event's attendee set
// and returns the updated event. The actor must be able to read the event;
// the creator may attend their own event.
//
// The flip direction is decided from a prior read, without a version check:
// two concurrent toggles on the same event can overlap and lose one update.
// That race is an accepted property of the design, not a bug to lock away.
func (s *Service) ToggleAttendance(ctx context.Context, actor Actor, ulid string) (*Event, error) {
	event, err := s.repo.GetByULID(ctx, ulid)
	if err != nil {
		return nil, err
	}
	if !CanRead(actor, *event) {
		return nil, ErrForbidden
	}

	if event.HasAttendee(actor.ID) {
		err = s.repo.RemoveAttendee(ctx, event.ID, actor.ID)
	} else {
		err = s.repo.AddAttendee(ctx, event.ID, actor.ID)
	}
	if err != nil {
		return nil, err
	}

	return s.repo.GetByULID(ctx, ulid)
}
