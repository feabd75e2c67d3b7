package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttech/storefront/pkg/apiclient"
	"github.com/smarttech/storefront/pkg/kv"
)

const productJSON = `{"id":1,"name":"SmartBoard Pro","description":"75 inch","price":500,"specifications":{},"images":[],"video_url":null,"is_active":true,"stock_quantity":4,"created_at":"2026-10-01T00:00:00Z","updated_at":null}`

func newClient(t *testing.T, handler http.Handler) (*Client, kv.Store) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	api, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	store := kv.NewMemory()
	return New(api, NewTokenStore(store), nil), store
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestProducts(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/":
			writeJSON(w, http.StatusOK, "["+productJSON+"]")
		case "/api/products/1":
			writeJSON(w, http.StatusOK, productJSON)
		default:
			writeJSON(w, http.StatusNotFound, `{"detail":"Product not found"}`)
		}
	}))
	ctx := context.Background()

	products, err := client.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SmartBoard Pro", products[0].Name)
	assert.Nil(t, products[0].VideoURL)

	product, err := client.Product(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 500.0, product.Price)

	_, err = client.Product(ctx, 42)
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Message)
}

func TestCreateOrderSendsIdempotencyKey(t *testing.T) {
	var gotKey string
	var payload map[string]any
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		writeJSON(w, http.StatusOK, `{"id":10,"customer_id":1,"product_id":1,"quantity":2,"total_price":1000,"status":"pending","order_date":"2026-10-01T00:00:00Z"}`)
	}))

	addr := "Road 1"
	order, err := client.CreateOrder(context.Background(), OrderCreate{
		Customer:        Customer{FullName: "Rahim", Email: "r@example.com", Phone: "017"},
		ProductID:       1,
		Quantity:        2,
		DeliveryAddress: &addr,
	}, WithIdempotencyKey("attempt:1:2"))
	require.NoError(t, err)
	assert.EqualValues(t, 10, order.ID)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, "attempt:1:2", gotKey)
	assert.Equal(t, "Road 1", payload["delivery_address"])
	assert.NotContains(t, payload, "special_requirements")
}

func TestCreateOrderRejectsUnknownStatus(t *testing.T) {
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"id":10,"product_id":1,"quantity":2,"total_price":1000,"status":"lost"}`)
	}))
	_, err := client.CreateOrder(context.Background(), OrderCreate{ProductID: 1, Quantity: 2})
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "invalid response payload", apiErr.Message)
}

func TestSendChatDefaultsLanguageAndRewrites500(t *testing.T) {
	fail := false
	var lastBody map[string]any
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastBody = map[string]any{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastBody))
		if fail {
			writeJSON(w, http.StatusInternalServerError, `{"detail":"model crashed"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"response":"Hello!","session_id":"s-1"}`)
	}))
	ctx := context.Background()

	resp, err := client.SendChat(ctx, ChatMessageCreate{Message: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "s-1", resp.SessionID)
	assert.Equal(t, "en", lastBody["language"])
	assert.NotContains(t, lastBody, "session_id")

	fail = true
	_, err = client.SendChat(ctx, ChatMessageCreate{Message: "hi", SessionID: "s-1", Language: "bn"})
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, ChatTechnicalDifficulties, apiErr.Message)
	assert.Equal(t, "bn", lastBody["language"])
}

func TestChatFallbackMessage(t *testing.T) {
	assert.Equal(t, ChatUnavailable, ChatFallbackMessage(errors.New("boom")))
	assert.Equal(t, ChatHighDemand, ChatFallbackMessage(&apiclient.Error{Status: 429, Message: "too much demand"}))
	assert.Equal(t, ChatUnavailable, ChatFallbackMessage(nil))
}

func TestLoginAttachesBearerUntilLogout(t *testing.T) {
	const token = "header.payload.sig"
	client, store := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/login":
			writeJSON(w, http.StatusOK, `{"access_token":"`+token+`","token_type":"bearer"}`)
		case "/api/dashboard/stats":
			if r.Header.Get("Authorization") != "Bearer "+token {
				writeJSON(w, http.StatusUnauthorized, `{"detail":"Not authenticated"}`)
				return
			}
			writeJSON(w, http.StatusOK, `{"total_orders":3,"pending_orders":1,"total_revenue":1300.5,"recent_orders":[]}`)
		}
	}))
	ctx := context.Background()

	authed, err := client.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, authed)

	_, err = client.Login(ctx, AdminLogin{Username: "admin", Password: "secret"})
	require.NoError(t, err)
	stored, err := store.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	stats, err := client.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.Equal(t, 1300.5, stats.TotalRevenue)

	require.NoError(t, client.Logout(ctx))
	authed, err = client.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, authed)

	_, err = client.DashboardStats(ctx)
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Not authenticated", apiErr.Message)
}

func TestFailedLoginStoresNothing(t *testing.T) {
	client, store := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`)
	}))
	ctx := context.Background()
	_, err := client.Login(ctx, AdminLogin{Username: "admin", Password: "nope"})
	require.Error(t, err)
	_, err = store.Get(ctx, TokenKey)
	require.ErrorIs(t, err, kv.ErrNotFound)
}

func TestOrdersQueryOmitsZeroValues(t *testing.T) {
	var rawQuery string
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawQuery = r.URL.RawQuery
		writeJSON(w, http.StatusOK, `[]`)
	}))
	ctx := context.Background()

	_, err := client.Orders(ctx, ListOrdersParams{})
	require.NoError(t, err)
	assert.Equal(t, "", rawQuery)

	_, err = client.Orders(ctx, ListOrdersParams{Skip: 10, Limit: 5, Status: OrderStatusShipped})
	require.NoError(t, err)
	assert.Equal(t, "limit=5&skip=10&status=shipped", rawQuery)
}

func TestFileEndpoints(t *testing.T) {
	var paths []string
	client, _ := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.EscapedPath())
		switch {
		case strings.HasPrefix(r.URL.Path, "/api/admin/files/list/"):
			writeJSON(w, http.StatusOK, `{"files":[{"filename":"a.png","size":3,"url":"/static/uploads/images/a.png","type":"images"}]}`)
		case strings.HasPrefix(r.URL.Path, "/api/admin/files/upload-image"):
			writeJSON(w, http.StatusRequestEntityTooLarge, `not json`)
		default:
			writeJSON(w, http.StatusOK, `{"message":"ok"}`)
		}
	}))
	ctx := context.Background()

	list, err := client.ListFiles(ctx, FileTypeImages)
	require.NoError(t, err)
	require.Len(t, list.Files, 1)

	_, err = client.DeleteFile(ctx, FileTypeVideos, "my clip.mp4")
	require.NoError(t, err)

	_, err = client.UploadImage(ctx, &apiclient.FilePart{FileName: "x.png", Content: strings.NewReader("data")})
	apiErr, ok := apiclient.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "Upload failed", apiErr.Message)

	_, err = client.ListFiles(ctx, FileType("docs"))
	require.ErrorIs(t, err, errUnknownFileType)

	assert.Equal(t, []string{
		"GET /api/admin/files/list/images",
		"DELETE /api/admin/files/delete/videos/my%20clip.mp4",
		"POST /api/admin/files/upload-image",
	}, paths)
}

func TestParseTokenInfo(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		Issuer:    "smarttech",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	info, err := ParseTokenInfo(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin", info.Subject)
	require.NotNil(t, info.ExpiresAt)
	assert.True(t, info.ExpiresAt.Equal(exp))
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(exp.Add(time.Second)))

	_, err = ParseTokenInfo("")
	require.Error(t, err)
	_, err = ParseTokenInfo("not-a-jwt")
	require.Error(t, err)
}
