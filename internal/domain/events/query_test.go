package events

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildListQueryAdminDefaultsToAll(t *testing.T) {
	query := BuildListQuery(admin, Filters{}, Pagination{Page: 1, Limit: 10})

	require.Equal(t, ScopeAll, query.Scope.Kind)
	require.Equal(t, SortStartDateAsc, query.Sort)
	require.Equal(t, 0, query.Skip)
	require.Equal(t, 10, query.Limit)
}

func TestBuildListQueryAdminVisibilityFilter(t *testing.T) {
	query := BuildListQuery(admin, Filters{Visibility: VisibilityPrivate}, Pagination{Page: 1, Limit: 10})

	require.Equal(t, ScopeVisibility, query.Scope.Kind)
	require.Equal(t, VisibilityPrivate, query.Scope.Visibility)
}

func TestBuildListQueryUserAlwaysScoped(t *testing.T) {
	query := BuildListQuery(alice, Filters{}, Pagination{Page: 1, Limit: 10})

	require.Equal(t, ScopePublicOrOwned, query.Scope.Kind)
	require.Equal(t, "alice", query.Scope.OwnerID)
}

func TestBuildListQueryUserVisibilityFilterIgnored(t *testing.T) {
	// The visibility knob is admin-only; a non-admin asking for
	// visibility=private still gets the scoped clause, not an error.
	query := BuildListQuery(alice, Filters{Visibility: VisibilityPrivate}, Pagination{Page: 1, Limit: 10})

	require.Equal(t, ScopePublicOrOwned, query.Scope.Kind)
	require.Equal(t, "alice", query.Scope.OwnerID)
	require.Empty(t, query.Scope.Visibility)
}

func TestBuildListQuerySearchCombinedWithScope(t *testing.T) {
	query := BuildListQuery(bob, Filters{Search: " jazz "}, Pagination{Page: 3, Limit: 5})

	require.Equal(t, ScopePublicOrOwned, query.Scope.Kind)
	require.Equal(t, "jazz", query.Search)
	require.Equal(t, 10, query.Skip)
	require.Equal(t, 5, query.Limit)
}

func TestParseListParamsDefaults(t *testing.T) {
	filters, p, err := ParseListParams(url.Values{})

	require.NoError(t, err)
	require.Equal(t, 1, p.Page)
	require.Equal(t, DefaultLimit, p.Limit)
	require.Empty(t, filters.Visibility)
	require.Empty(t, filters.Search)
}

func TestParseListParamsValues(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("limit", "25")
	values.Set("visibility", "Private")
	values.Set("search", "  board games ")

	filters, p, err := ParseListParams(values)

	require.NoError(t, err)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 25, p.Limit)
	require.Equal(t, VisibilityPrivate, filters.Visibility)
	require.Equal(t, "board games", filters.Search)
}

func TestParseListParamsInvalidPage(t *testing.T) {
	for _, raw := range []string{"0", "-1", "abc"} {
		values := url.Values{}
		values.Set("page", raw)

		_, _, err := ParseListParams(values)

		var filterErr FilterError
		require.ErrorAs(t, err, &filterErr, "page=%s", raw)
		require.Equal(t, "page", filterErr.Field)
	}
}

func TestParseListParamsInvalidLimit(t *testing.T) {
	for _, raw := range []string{"0", "-5", "abc", "101"} {
		values := url.Values{}
		values.Set("limit", raw)

		_, _, err := ParseListParams(values)

		var filterErr FilterError
		require.ErrorAs(t, err, &filterErr, "limit=%s", raw)
		require.Equal(t, "limit", filterErr.Field)
	}
}

func TestParseListParamsInvalidVisibility(t *testing.T) {
	values := url.Values{}
	values.Set("visibility", "hidden")

	_, _, err := ParseListParams(values)

	var filterErr FilterError
	require.ErrorAs(t, err, &filterErr)
	require.Equal(t, "visibility", filterErr.Field)
}
