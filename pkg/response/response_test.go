package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkgErrors "github.com/vogiaan1904/ticketbottle-dashboard/pkg/errors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) Resp {
	t.Helper()
	var r Resp
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&r))
	return r
}

func TestOK(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, OK(rec, map[string]int{"soldTickets": 3}))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	r := decode(t, rec)
	assert.Equal(t, 0, r.ErrorCode)
	assert.Equal(t, map[string]any{"soldTickets": float64(3)}, r.Data)
}

func TestErrorHTTPError(t *testing.T) {
	base := pkgErrors.NewHTTPError(http.StatusConflict, 30002, "system is already running")
	rec := httptest.NewRecorder()
	require.NoError(t, Error(rec, fmt.Errorf("start: %w", base.WithDetails([]string{"stop first"}))))

	assert.Equal(t, http.StatusConflict, rec.Code)
	r := decode(t, rec)
	assert.Equal(t, 30002, r.ErrorCode)
	assert.Equal(t, "system is already running", r.Message)
	assert.Equal(t, []any{"stop first"}, r.Errors)
	assert.Nil(t, base.Details)
}

func TestErrorDefaults(t *testing.T) {
	rec := httptest.NewRecorder()
	require.NoError(t, Error(rec, &pkgErrors.HTTPError{Code: 1, Message: "bad"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	require.NoError(t, Error(rec, errors.New("boom")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decode(t, rec).Message)
}
