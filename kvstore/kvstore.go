// Package kvstore defines the durable string key-value storage used to hold
// per-session snapshots, such as the shopper's cart.
package kvstore

import "context"

// Store is a string-valued key-value collection. Get reports absence via
// its boolean, never via an error, so a first run and a missing key look
// the same to callers.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
