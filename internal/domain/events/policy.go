package events

import "github.com/gatherhub/server/internal/auth"

// Access policy for events. All predicates are pure; they never touch the
// repository.

// CanList reports whether the event may appear in the actor's event list:
// public events, anything for admins, and the actor's own events.
func CanList(actor Actor, event Event) bool {
	if event.Visibility == VisibilityPublic {
		return true
	}
	if auth.IsAdmin(actor.Role) {
		return true
	}
	return event.CreatedBy.ID == actor.ID
}

// CanRead gates single-event fetches. Same rule as CanList, but applied
// after the fetch so callers can distinguish not-found from forbidden.
func CanRead(actor Actor, event Event) bool {
	return CanList(actor, event)
}

// CanWrite governs field edits: admins and the creator. It does not cover
// attendance toggling or deletion.
func CanWrite(actor Actor, event Event) bool {
	if auth.IsAdmin(actor.Role) {
		return true
	}
	return event.CreatedBy.ID == actor.ID
}

// CanDelete is admin-only. Ownership deliberately does not grant delete;
// a creator cannot remove their own event unless they are an admin.
func CanDelete(actor Actor) bool {
	return auth.IsAdmin(actor.Role)
}
