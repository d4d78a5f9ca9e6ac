// Package metadata stores small key/value records in the console's local
// database. The console keeps its bearer token and the mobile number it
// was issued for here.
package metadata

import (
	"context"
	"time"
)

// Item is one stored record.
type Item struct {
	Key       string
	Value     []byte
	UpdatedAt time.Time
}

type Repository interface {
	// Get returns nil, nil when key is absent.
	Get(ctx context.Context, key string) (*Item, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
	List(ctx context.Context) ([]Item, error)
}
