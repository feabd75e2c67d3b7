// Package storefront is the typed surface of the storefront backend: catalog,
// orders, chat and the bearer-authenticated admin endpoints.
package storefront

import (
	"context"

	"github.com/smarttech/storefront/pkg/apiclient"
	"github.com/smarttech/storefront/pkg/logger"
)

// Client calls the backend endpoints through the shared API client.
type Client struct {
	api    *apiclient.Client
	tokens *TokenStore
	logg   *logger.Logger
}

func New(api *apiclient.Client, tokens *TokenStore, logg *logger.Logger) *Client {
	if logg == nil {
		logg = logger.Nop()
	}
	return &Client{api: api, tokens: tokens, logg: logg}
}

// Tokens exposes the bearer token store.
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

// authHeaders attaches the stored bearer token. No token means no header; the
// backend's 401 is the authority.
func (c *Client) authHeaders(ctx context.Context) (map[string]string, error) {
	if c.tokens == nil {
		return nil, nil
	}
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		return nil, nil
	}
	return map[string]string{"Authorization": "Bearer " + token}, nil
}

func (c *Client) adminCall(ctx context.Context, req apiclient.Request, out any) error {
	headers, err := c.authHeaders(ctx)
	if err != nil {
		return err
	}
	if len(headers) > 0 {
		merged := make(map[string]string, len(headers)+len(req.Headers))
		for k, v := range headers {
			merged[k] = v
		}
		for k, v := range req.Headers {
			merged[k] = v
		}
		req.Headers = merged
	}
	return c.api.Do(ctx, req, out)
}
