package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/validate"
)

type loginBody struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func TestDecodeJSONBody(t *testing.T) {
	var ok loginBody
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"admin","password":"x"}`))
	require.NoError(t, DecodeJSONBody(req, &ok))
	assert.Equal(t, "admin", ok.Username)

	var missing loginBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"admin"}`))
	err := DecodeJSONBody(req, &missing)
	require.Error(t, err)
	assert.Equal(t, map[string]string{"password": "is required"}, validate.Details(err))

	var unknown loginBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"username":"a","password":"b","role":"root"}`))
	err = DecodeJSONBody(req, &unknown)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	var empty loginBody
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err = DecodeJSONBody(req, &empty)
	require.Error(t, err)
	assert.Equal(t, "request body is required", pkgerrors.As(err).Message())
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?limit=20&skip=abc&big=5000", nil)

	v, err := ParseQueryInt(req, "limit", 100, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 20, v)

	v, err = ParseQueryInt(req, "missing", 100, 1, 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, v)

	_, err = ParseQueryInt(req, "skip", 0, 0, 1000)
	require.Error(t, err)
	_, err = ParseQueryInt(req, "big", 0, 0, 1000)
	require.Error(t, err)
}

func TestParseIDParam(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", "12")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	id, err := ParseIDParam(req, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	rctx.URLParams = chi.RouteParams{}
	rctx.URLParams.Add("id", "-3")
	_, err = ParseIDParam(req, "id")
	require.Error(t, err)
}
