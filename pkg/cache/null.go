package cache

import (
	"context"
	"time"
)

// NullCache stores nothing, so every analysis recomputes its plan. It backs
// --no-cache, the "none" backend, and a file cache whose directory cannot
// be resolved.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() *NullCache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

func (*NullCache) String() string { return "none" }

var _ Cache = (*NullCache)(nil)
