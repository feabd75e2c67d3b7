package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/metrics"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: rt})}, opts...)
	client, err := New("http://api.test/", opts...)
	require.NoError(t, err)
	return client
}

type item struct {
	ID    int64   `json:"id" validate:"required"`
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

func TestNewNormalizesBaseURL(t *testing.T) {
	client, err := New("  http://localhost:9000/ ")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", client.BaseURL())

	client, err = New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, client.BaseURL())

	_, err = New("ftp://example.com")
	require.ErrorIs(t, err, errBaseURLScheme)

	_, err = New("http://")
	require.Error(t, err)
}

func TestDoSendsJSONWithDefaultHeaders(t *testing.T) {
	var captured *http.Request
	var body map[string]any
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		raw, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, &body))
		return jsonResponse(http.StatusOK, `{"id":7,"name":"Board","price":500}`), nil
	}, WithUserAgent("smarttech-storefront"))

	out, err := Call[item](context.Background(), client, Request{
		Method: http.MethodPost,
		Path:   "/api/orders/",
		Query:  url.Values{"status": []string{"pending"}},
		Body:   map[string]any{"product_id": 7},
	})
	require.NoError(t, err)
	assert.Equal(t, item{ID: 7, Name: "Board", Price: 500}, out)

	assert.Equal(t, "http://api.test/api/orders/?status=pending", captured.URL.String())
	assert.Equal(t, http.MethodPost, captured.Method)
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", captured.Header.Get("Accept"))
	assert.Equal(t, "smarttech-storefront", captured.Header.Get("User-Agent"))
	assert.EqualValues(t, 7, body["product_id"])
}

func TestCallerHeadersOverrideDefaults(t *testing.T) {
	var captured http.Header
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req.Header.Clone()
		return jsonResponse(http.StatusOK, `{}`), nil
	})

	err := client.Do(context.Background(), Request{
		Path: "api/admin/me",
		Headers: map[string]string{
			"Content-Type":  "text/plain",
			"Authorization": "Bearer tok",
		},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", captured.Get("Content-Type"))
	assert.Equal(t, "Bearer tok", captured.Get("Authorization"))
}

func TestNon2xxCarriesDetailMessage(t *testing.T) {
	cases := map[string]struct {
		status   int
		body     string
		fallback string
		want     string
	}{
		"detail string":     {http.StatusNotFound, `{"detail":"Product not found"}`, "", "Product not found"},
		"detail list":       {http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","email"],"msg":"value is not a valid email address"},{"msg":"field required"}]}`, "", "value is not a valid email address; field required"},
		"error envelope":    {http.StatusConflict, `{"error":{"code":"CONFLICT","message":"already exists"}}`, "", "already exists"},
		"top level message": {http.StatusBadRequest, `{"message":"bad input"}`, "", "bad input"},
		"no message":        {http.StatusInternalServerError, `{"status":"boom"}`, "", "Request failed"},
		"unparseable":       {http.StatusBadGateway, `<html>bad gateway</html>`, "", "Unknown error"},
		"upload fallback":   {http.StatusRequestEntityTooLarge, ``, "Upload failed", "Upload failed"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(*http.Request) (*http.Response, error) {
				return jsonResponse(tc.status, tc.body), nil
			})
			err := client.Do(context.Background(), Request{Path: "/x", ErrorFallback: tc.fallback}, nil)
			apiErr, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tc.status, apiErr.Status)
			assert.Equal(t, tc.want, apiErr.Message)
			assert.False(t, apiErr.IsNetwork())
			assert.Equal(t, pkgerrors.CodeForStatus(tc.status), apiErr.Code())
		})
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return nil, cause
	})

	err := client.Do(context.Background(), Request{Path: "/api/products/"}, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, 0, apiErr.Status)
	assert.True(t, apiErr.IsNetwork())
	assert.Equal(t, "Network error - Unable to connect to the server", apiErr.Message)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, pkgerrors.CodeNetwork, apiErr.Code())
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	client, err := New(addr)
	require.NoError(t, err)
	err = client.Do(context.Background(), Request{Path: "/health"}, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.True(t, apiErr.IsNetwork())
}

func TestCancelledContextIsDistinguished(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		cancel()
		return nil, req.Context().Err()
	})

	err := client.Do(ctx, Request{Path: "/api/orders/"}, nil)
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, 0, apiErr.Status)
	assert.True(t, apiErr.IsCanceled())
	assert.False(t, apiErr.IsNetwork())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResponseValidationRejectsMissingFields(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"id":1,"name":"ok"},{"id":2}]`), nil
	})

	_, err := Call[[]item](context.Background(), client, Request{Path: "/api/products/"})
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Equal(t, "invalid response payload", apiErr.Message)
	assert.Contains(t, errors.Unwrap(err).Error(), "item 1")
}

func TestMalformedSuccessBody(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"id":`), nil
	})
	_, err := Call[item](context.Background(), client, Request{Path: "/api/products/1"})
	apiErr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid response payload", apiErr.Message)
}

func TestEmptySuccessBodyLeavesOutUntouched(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNoContent, ``), nil
	})
	out := item{ID: 3, Name: "kept"}
	require.NoError(t, client.Do(context.Background(), Request{Method: http.MethodDelete, Path: "/x"}, &out))
	assert.Equal(t, item{ID: 3, Name: "kept"}, out)
}

func TestMultipartUploadBypassesJSON(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		assert.Equal(t, "multipart/form-data", mediaType)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		reader := multipart.NewReader(r.Body, params["boundary"])
		part, err := reader.NextPart()
		require.NoError(t, err)
		assert.Equal(t, "file", part.FormName())
		assert.Equal(t, "board.png", part.FileName())
		assert.Equal(t, "image/png", part.Header.Get("Content-Type"))
		data, err := io.ReadAll(part)
		require.NoError(t, err)
		assert.Equal(t, png, data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"filename":"abc.png"}`))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "board.png")
	require.NoError(t, os.WriteFile(path, png, 0o600))
	part, err := FileFromPath(path)
	require.NoError(t, err)

	client, err := New(srv.URL)
	require.NoError(t, err)
	var out map[string]string
	err = client.Do(context.Background(), Request{
		Method:    http.MethodPost,
		Path:      "/api/admin/files/upload-image",
		Headers:   map[string]string{"Authorization": "Bearer tok", "Content-Type": "application/json"},
		Multipart: part,
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, "abc.png", out["filename"])
}

func TestMultipartRequiresFileName(t *testing.T) {
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		t.Fatal("request must not be sent")
		return nil, nil
	})
	err := client.Do(context.Background(), Request{
		Method:    http.MethodPost,
		Path:      "/upload",
		Multipart: &FilePart{Content: strings.NewReader("x")},
	}, nil)
	require.Error(t, err)
	_, isAPI := AsError(err)
	assert.False(t, isAPI)
	assert.Equal(t, -1, StatusOf(err))
}

func TestMetricsRecordRouteAndStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewAPIClientMetrics(reg)
	client := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"detail":"Product not found"}`), nil
	}, WithMetrics(m))

	_ = client.Do(context.Background(), Request{Path: "/api/products/99", Route: "/api/products/{id}"}, nil)

	expected := `
# HELP storefront_api_requests_total Requests sent to the storefront backend by status (0 for network failures).
# TYPE storefront_api_requests_total counter
storefront_api_requests_total{method="GET",route="/api/products/{id}",status="404"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "storefront_api_requests_total"))
}

func TestNoDefaultTimeout(t *testing.T) {
	client, err := New("http://api.test")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), client.httpClient.Timeout)
}
