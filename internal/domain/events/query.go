package events

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/gatherhub/server/internal/api/pagination"
	"github.com/gatherhub/server/internal/auth"
)

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// FilterError marks a malformed list parameter (page, limit, visibility).
type FilterError struct {
	Field   string
	Message string
}

func (e FilterError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// BuildListQuery composes the policy-derived visibility scope with the
// caller's filters into one typed descriptor.
//
// Admins see everything and may narrow with the visibility filter. For
// non-admins the scope is always `public OR (private AND owned)`; their
// visibility filter is silently ignored, matching the admin-only filter knob
// semantics of the original API. The search clause is AND-combined with the
// scope, so a private event can never leak through search.
func BuildListQuery(actor Actor, filters Filters, p Pagination) Query {
	query := Query{
		Search: strings.TrimSpace(filters.Search),
		Sort:   SortStartDateAsc,
		Skip:   pagination.Skip(p.Page, p.Limit),
		Limit:  p.Limit,
	}

	if auth.IsAdmin(actor.Role) {
		if filters.Visibility != "" {
			query.Scope = Scope{Kind: ScopeVisibility, Visibility: filters.Visibility}
		} else {
			query.Scope = Scope{Kind: ScopeAll}
		}
		return query
	}

	query.Scope = Scope{Kind: ScopePublicOrOwned, OwnerID: actor.ID}
	return query
}

// ParseListParams parses and validates the list query string.
func ParseListParams(values url.Values) (Filters, Pagination, error) {
	filters := Filters{}
	p := Pagination{Page: 1, Limit: DefaultLimit}

	page, err := parsePositiveInt(values, "page", 1)
	if err != nil {
		return filters, p, err
	}
	p.Page = page

	limit, err := parsePositiveInt(values, "limit", DefaultLimit)
	if err != nil {
		return filters, p, err
	}
	if limit > MaxLimit {
		return filters, p, FilterError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxLimit)}
	}
	p.Limit = limit

	visibility := strings.ToLower(strings.TrimSpace(values.Get("visibility")))
	switch visibility {
	case "":
	case string(VisibilityPublic), string(VisibilityPrivate):
		filters.Visibility = Visibility(visibility)
	default:
		return filters, p, FilterError{Field: "visibility", Message: "must be public or private"}
	}

	filters.Search = strings.TrimSpace(values.Get("search"))

	return filters, p, nil
}

func parsePositiveInt(values url.Values, field string, fallback int) (int, error) {
	raw := strings.TrimSpace(values.Get(field))
	if raw == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, FilterError{Field: field, Message: "must be a number"}
	}
	if parsed < 1 {
		return 0, FilterError{Field: field, Message: "must be at least 1"}
	}
	return parsed, nil
}
