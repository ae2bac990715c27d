package problem

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteSetsTypeAndInstance(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/abc", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusNotFound, "not-found", "Not found", ErrForbidden, "test")

	require.Equal(t, http.StatusNotFound, res.Code)
	require.Equal(t, "application/problem+json", res.Header().Get("Content-Type"))

	var p ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
	require.Equal(t, BaseURL+"/not-found", p.Type)
	require.Equal(t, "/api/v1/events/abc", p.Instance)
	require.Equal(t, "forbidden", p.Detail)
}

func TestWriteHidesDetailInProduction(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusInternalServerError, "server-error", "Server error", ErrUnauthorized, "production")

	var p ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
	require.Equal(t, http.StatusText(http.StatusInternalServerError), p.Detail)
}

func TestWriteWithErrors(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events", nil)
	res := httptest.NewRecorder()

	Write(res, req, http.StatusUnprocessableEntity, "validation-error", "Invalid request", nil, "test",
		WithErrors(map[string]interface{}{"endDate": "must be after startDate"}))

	var p ProblemDetails
	require.NoError(t, json.NewDecoder(res.Body).Decode(&p))
	require.Equal(t, "must be after startDate", p.Errors["endDate"])
}
