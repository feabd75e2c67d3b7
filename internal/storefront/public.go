package storefront

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/smarttech/storefront/pkg/apiclient"
)

const defaultChatLanguage = "en"

func (c *Client) Products(ctx context.Context) ([]Product, error) {
	return apiclient.Call[[]Product](ctx, c.api, apiclient.Request{Path: "/api/products/"})
}

func (c *Client) Product(ctx context.Context, id int64) (Product, error) {
	return apiclient.Call[Product](ctx, c.api, apiclient.Request{
		Path:  fmt.Sprintf("/api/products/%d", id),
		Route: "/api/products/{id}",
	})
}

// OrderOption adjusts a single order-creation request.
type OrderOption func(*apiclient.Request)

// WithIdempotencyKey sends an Idempotency-Key header. Backends that ignore it
// still create the order normally.
func WithIdempotencyKey(key string) OrderOption {
	return func(r *apiclient.Request) {
		if strings.TrimSpace(key) == "" {
			return
		}
		if r.Headers == nil {
			r.Headers = map[string]string{}
		}
		r.Headers["Idempotency-Key"] = key
	}
}

func (c *Client) CreateOrder(ctx context.Context, order OrderCreate, opts ...OrderOption) (Order, error) {
	req := apiclient.Request{
		Method: http.MethodPost,
		Path:   "/api/orders/",
		Body:   order,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&req)
		}
	}
	return apiclient.Call[Order](ctx, c.api, req)
}

// SendChat exchanges one chat message. A backend 500 is rewritten into a
// customer-facing message; other failures pass through unchanged.
func (c *Client) SendChat(ctx context.Context, msg ChatMessageCreate) (ChatMessageResponse, error) {
	if msg.Language == "" {
		msg.Language = defaultChatLanguage
	}
	resp, err := apiclient.Call[ChatMessageResponse](ctx, c.api, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/api/chat/",
		Body:   msg,
	})
	if err != nil {
		if apiErr, ok := apiclient.AsError(err); ok && apiErr.Status == http.StatusInternalServerError {
			return ChatMessageResponse{}, &apiclient.Error{Status: apiErr.Status, Message: ChatTechnicalDifficulties}
		}
		return ChatMessageResponse{}, err
	}
	return resp, nil
}

func (c *Client) ChatHistory(ctx context.Context, sessionID string) ([]ChatMessage, error) {
	return apiclient.Call[[]ChatMessage](ctx, c.api, apiclient.Request{
		Path:  "/api/chat/history/" + pathSegment(sessionID),
		Route: "/api/chat/history/{session_id}",
	})
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	return apiclient.Call[Health](ctx, c.api, apiclient.Request{Path: "/health"})
}
