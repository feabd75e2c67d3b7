package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/smarttech/storefront/pkg/apiclient"
)

var errUnknownFileType = errors.New("file type must be images or videos")

// Login exchanges credentials for a bearer token and persists it.
func (c *Client) Login(ctx context.Context, creds AdminLogin) (Token, error) {
	token, err := apiclient.Call[Token](ctx, c.api, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/api/admin/login",
		Body:   creds,
	})
	if err != nil {
		return Token{}, err
	}
	if err := c.tokens.Set(ctx, token.AccessToken); err != nil {
		return Token{}, err
	}
	c.logg.Info(c.logg.WithAdmin(ctx, creds.Username), "admin.login.succeeded")
	return token, nil
}

// Logout forgets the stored token. The backend is not contacted.
func (c *Client) Logout(ctx context.Context) error {
	return c.tokens.Clear(ctx)
}

// IsAuthenticated reports whether a token is stored, without checking it.
func (c *Client) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// TokenInfo decodes the stored token for display.
func (c *Client) TokenInfo(ctx context.Context) (TokenInfo, error) {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		return TokenInfo{}, err
	}
	return ParseTokenInfo(token)
}

func (c *Client) Profile(ctx context.Context) (Admin, error) {
	var out Admin
	err := c.adminCall(ctx, apiclient.Request{Path: "/api/admin/me"}, &out)
	return out, err
}

// Orders lists orders. Zero values are omitted from the query.
func (c *Client) Orders(ctx context.Context, params ListOrdersParams) ([]Order, error) {
	query := url.Values{}
	if params.Skip > 0 {
		query.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Status != "" {
		query.Set("status", string(params.Status))
	}
	var out []Order
	err := c.adminCall(ctx, apiclient.Request{Path: "/api/orders/", Query: query}, &out)
	return out, err
}

func (c *Client) Order(ctx context.Context, id int64) (Order, error) {
	var out Order
	err := c.adminCall(ctx, apiclient.Request{
		Path:  fmt.Sprintf("/api/orders/%d", id),
		Route: "/api/orders/{id}",
	}, &out)
	return out, err
}

func (c *Client) UpdateOrder(ctx context.Context, id int64, update OrderUpdate) (Order, error) {
	var out Order
	err := c.adminCall(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/orders/%d", id),
		Route:  "/api/orders/{id}",
		Body:   update,
	}, &out)
	return out, err
}

func (c *Client) DeleteOrder(ctx context.Context, id int64) (MessageResponse, error) {
	var out MessageResponse
	err := c.adminCall(ctx, apiclient.Request{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/orders/%d", id),
		Route:  "/api/orders/{id}",
	}, &out)
	return out, err
}

func (c *Client) DashboardStats(ctx context.Context) (DashboardStats, error) {
	var out DashboardStats
	err := c.adminCall(ctx, apiclient.Request{Path: "/api/dashboard/stats"}, &out)
	return out, err
}

func (c *Client) UploadImage(ctx context.Context, file *apiclient.FilePart) (FileUploadResponse, error) {
	return c.upload(ctx, "/api/admin/files/upload-image", file)
}

func (c *Client) UploadVideo(ctx context.Context, file *apiclient.FilePart) (FileUploadResponse, error) {
	return c.upload(ctx, "/api/admin/files/upload-video", file)
}

func (c *Client) upload(ctx context.Context, path string, file *apiclient.FilePart) (FileUploadResponse, error) {
	var out FileUploadResponse
	err := c.adminCall(ctx, apiclient.Request{
		Method:        http.MethodPost,
		Path:          path,
		Multipart:     file,
		ErrorFallback: "Upload failed",
	}, &out)
	return out, err
}

func (c *Client) ListFiles(ctx context.Context, fileType FileType) (FileList, error) {
	if !fileType.Valid() {
		return FileList{}, errUnknownFileType
	}
	var out FileList
	err := c.adminCall(ctx, apiclient.Request{
		Path:  "/api/admin/files/list/" + string(fileType),
		Route: "/api/admin/files/list/{type}",
	}, &out)
	return out, err
}

func (c *Client) DeleteFile(ctx context.Context, fileType FileType, filename string) (MessageResponse, error) {
	if !fileType.Valid() {
		return MessageResponse{}, errUnknownFileType
	}
	var out MessageResponse
	err := c.adminCall(ctx, apiclient.Request{
		Method: http.MethodDelete,
		Path:   "/api/admin/files/delete/" + string(fileType) + "/" + pathSegment(filename),
		Route:  "/api/admin/files/delete/{type}/{filename}",
	}, &out)
	return out, err
}

func (c *Client) UpdateProductMedia(ctx context.Context, productID int64, update ProductMediaUpdate) (Product, error) {
	var out Product
	err := c.adminCall(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/api/admin/files/update-product-media/%d", productID),
		Route:  "/api/admin/files/update-product-media/{id}",
		Body:   update,
	}, &out)
	return out, err
}
