package storefront

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/smarttech/storefront/pkg/kv"
)

// TokenKey is where the admin bearer token is persisted.
const TokenKey = "admin_token"

// TokenStore persists the admin bearer token. Presence of a token is the only
// "logged in" signal; it is never validated locally.
type TokenStore struct {
	store kv.Store
}

func NewTokenStore(store kv.Store) *TokenStore {
	return &TokenStore{store: store}
}

// Get returns the stored token or "" when none is stored.
func (t *TokenStore) Get(ctx context.Context) (string, error) {
	token, err := t.store.Get(ctx, TokenKey)
	if errors.Is(err, kv.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read admin token: %w", err)
	}
	return token, nil
}

func (t *TokenStore) Set(ctx context.Context, token string) error {
	if err := t.store.Set(ctx, TokenKey, token); err != nil {
		return fmt.Errorf("store admin token: %w", err)
	}
	return nil
}

func (t *TokenStore) Clear(ctx context.Context) error {
	if err := t.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("clear admin token: %w", err)
	}
	return nil
}

// TokenInfo is the display-only view of a stored token.
type TokenInfo struct {
	Subject   string
	Issuer    string
	ExpiresAt *time.Time
}

// Expired reports whether the token's exp claim is in the past relative to now.
func (i TokenInfo) Expired(now time.Time) bool {
	return i.ExpiresAt != nil && !now.Before(*i.ExpiresAt)
}

// ParseTokenInfo decodes a JWT without verifying its signature. The backend stays
// the only authority on whether the token is accepted.
func ParseTokenInfo(token string) (TokenInfo, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TokenInfo{}, errors.New("token is empty")
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("decode token: %w", err)
	}
	info := TokenInfo{Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		info.ExpiresAt = &exp
	}
	return info, nil
}
