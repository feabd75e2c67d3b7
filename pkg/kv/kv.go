// Package kv is the client-side key-value store that replaces browser local storage.
// Every implementation stores plain strings under flat keys.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has never been set or was deleted.
var ErrNotFound = errors.New("kv: key not found")

// Store is the persistence surface shared by the cart, the bearer token and the
// checkout journal.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}
