package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/gatherhub/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

// WithTx runs fn against a transactional copy of the repository. Nested
// calls reuse the already-open transaction.
func (r *EventRepository) WithTx(ctx context.Context, fn func(context.Context, events.Repository) error) error {
	if r.tx != nil {
		return fn(ctx, r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	wrapped := &EventRepository{pool: r.pool, tx: tx}
	if err := fn(ctx, wrapped); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

const eventColumns = `
e.id, e.ulid, e.title, e.description, e.start_date, e.end_date,
e.location, e.visibility, e.created_at, e.updated_at,
u.id, u.display_name, u.email`

type eventRow struct {
	ID           pgtype.UUID
	ULID         string
	Title        string
	Description  string
	StartDate    pgtype.Timestamptz
	EndDate      pgtype.Timestamptz
	Location     string
	Visibility   string
	CreatedAt    pgtype.Timestamptz
	UpdatedAt    pgtype.Timestamptz
	CreatorID    pgtype.UUID
	CreatorName  string
	CreatorEmail string
}

func scanEventRow(row pgx.Row) (events.Event, error) {
	var r eventRow
	err := row.Scan(
		&r.ID,
		&r.ULID,
		&r.Title,
		&r.Description,
		&r.StartDate,
		&r.EndDate,
		&r.Location,
		&r.Visibility,
		&r.CreatedAt,
		&r.UpdatedAt,
		&r.CreatorID,
		&r.CreatorName,
		&r.CreatorEmail,
	)
	if err != nil {
		return events.Event{}, err
	}

	event := events.Event{
		ID:          uuidString(r.ID),
		ULID:        r.ULID,
		Title:       r.Title,
		Description: r.Description,
		Location:    r.Location,
		Visibility:  events.Visibility(r.Visibility),
		CreatedBy: events.UserSummary{
			ID:          uuidString(r.CreatorID),
			DisplayName: r.CreatorName,
			Email:       r.CreatorEmail,
		},
	}
	if r.StartDate.Valid {
		event.StartDate = r.StartDate.Time
	}
	if r.EndDate.Valid {
		event.EndDate = r.EndDate.Time
	}
	if r.CreatedAt.Valid {
		event.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		event.UpdatedAt = r.UpdatedAt.Time
	}
	return event, nil
}

// buildWhere translates a query descriptor into a WHERE clause. Kept pure so
// the scope and search translation is testable without a database.
func buildWhere(query events.Query) (string, []any) {
	clauses := make([]string, 0, 2)
	args := make([]any, 0, 2)

	switch query.Scope.Kind {
	case events.ScopeVisibility:
		args = append(args, string(query.Scope.Visibility))
		clauses = append(clauses, fmt.Sprintf("e.visibility = $%d", len(args)))
	case events.ScopePublicOrOwned:
		args = append(args, query.Scope.OwnerID)
		clauses = append(clauses, fmt.Sprintf("(e.visibility = 'public' OR e.created_by = $%d)", len(args)))
	}

	if query.Search != "" {
		args = append(args, "%"+escapeLike(query.Search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf(
			`(e.title ILIKE $%d ESCAPE '\' OR e.description ILIKE $%d ESCAPE '\' OR e.location ILIKE $%d ESCAPE '\')`,
			n, n, n))
	}

	if len(clauses) == 0 {
		return "TRUE", args
	}
	return strings.Join(clauses, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search text.
func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}

func (r *EventRepository) List(ctx context.Context, query events.Query) ([]events.Event, error) {
	where, args := buildWhere(query)

	limit := query.Limit
	if limit <= 0 {
		limit = events.DefaultLimit
	}
	args = append(args, limit)
	limitArg := len(args)
	args = append(args, query.Skip)
	offsetArg := len(args)

	sql := fmt.Sprintf(`
SELECT %s
  FROM events e
  JOIN users u ON u.id = e.created_by
 WHERE %s
 ORDER BY e.start_date ASC, e.ulid ASC
 LIMIT $%d OFFSET $%d
`, eventColumns, where, limitArg, offsetArg)

	rows, err := r.queryer().Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	items := make([]events.Event, 0, limit)
	for rows.Next() {
		event, err := scanEventRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	if err := r.loadAttendees(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *EventRepository) Count(ctx context.Context, query events.Query) (int, error) {
	where, args := buildWhere(query)

	sql := fmt.Sprintf(`SELECT COUNT(*) FROM events e WHERE %s`, where)

	var total int
	if err := r.queryer().QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

func (r *EventRepository) GetByULID(ctx context.Context, ulid string) (*events.Event, error) {
	sql := fmt.Sprintf(`
SELECT %s
  FROM events e
  JOIN users u ON u.id = e.created_by
 WHERE e.ulid = $1
`, eventColumns)

	event, err := scanEventRow(r.queryer().QueryRow(ctx, sql, strings.ToUpper(strings.TrimSpace(ulid))))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, events.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	page := []events.Event{event}
	if err := r.loadAttendees(ctx, page); err != nil {
		return nil, err
	}
	return &page[0], nil
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	var id pgtype.UUID
	err := r.queryer().QueryRow(ctx, `
INSERT INTO events (ulid, title, description, start_date, end_date, location, visibility, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`,
		params.ULID,
		params.Title,
		params.Description,
		params.StartDate,
		params.EndDate,
		params.Location,
		string(params.Visibility),
		params.CreatedByID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	return r.GetByULID(ctx, params.ULID)
}

func (r *EventRepository) Update(ctx context.Context, id string, params events.UpdateParams) error {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.StartDate != nil {
		add("start_date", *params.StartDate)
	}
	if params.EndDate != nil {
		add("end_date", *params.EndDate)
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.Visibility != nil {
		add("visibility", string(*params.Visibility))
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	sql := fmt.Sprintf("UPDATE events SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	tag, err := r.queryer().Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return events.ErrNotFound
	}
	return nil
}

// AddAttendee is a set insert: adding an existing member is a no-op.
func (r *EventRepository) AddAttendee(ctx context.Context, eventID, userID string) error {
	_, err := r.queryer().Exec(ctx, `
INSERT INTO event_attendees (event_id, user_id)
VALUES ($1, $2)
ON CONFLICT (event_id, user_id) DO NOTHING
`, eventID, userID)
	if err != nil {
		return fmt.Errorf("add attendee: %w", err)
	}
	return nil
}

func (r *EventRepository) RemoveAttendee(ctx context.Context, eventID, userID string) error {
	_, err := r.queryer().Exec(ctx, `
DELETE FROM event_attendees WHERE event_id = $1 AND user_id = $2
`, eventID, userID)
	if err != nil {
		return fmt.Errorf("remove attendee: %w", err)
	}
	return nil
}

// loadAttendees fills the attendee summaries for one page of events with a
// single query.
func (r *EventRepository) loadAttendees(ctx context.Context, page []events.Event) error {
	if len(page) == 0 {
		return nil
	}

	index := make(map[string]int, len(page))
	eventIDs := make([]string, 0, len(page))
	for i := range page {
		page[i].Attendees = []events.UserSummary{}
		index[page[i].ID] = i
		eventIDs = append(eventIDs, page[i].ID)
	}

	rows, err := r.queryer().Query(ctx, `
SELECT ea.event_id, u.id, u.display_name, u.email
  FROM event_attendees ea
  JOIN users u ON u.id = ea.user_id
 WHERE ea.event_id = ANY($1::uuid[])
 ORDER BY ea.created_at ASC
`, eventIDs)
	if err != nil {
		return fmt.Errorf("load attendees: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var eventID, userID pgtype.UUID
		var name, email string
		if err := rows.Scan(&eventID, &userID, &name, &email); err != nil {
			return fmt.Errorf("scan attendee: %w", err)
		}
		if i, ok := index[uuidString(eventID)]; ok {
			page[i].Attendees = append(page[i].Attendees, events.UserSummary{
				ID:          uuidString(userID),
				DisplayName: name,
				Email:       email,
			})
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate attendees: %w", err)
	}
	return nil
}
