// Package cache stores placement plans so a reloaded ad reuses its layout
// decision instead of re-analyzing the image.
//
// # Backends
//
//   - [NullCache]: caching disabled
//   - [FileCache]: JSON entries under a local directory, for the CLI
//   - [RedisCache]: shared cache for multi-instance servers
//
// # Keys
//
// A [Keyer] derives keys from the image bytes and the placement hints, so
// the same image analyzed with the same hints hits the same entry:
//
//	key := keyer.PlanKey(cache.Hash(imageBytes), cache.PlanKeyOpts{Format: "square", ...})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

const (
	// DefaultPlanTTL is how long a computed plan stays cached.
	DefaultPlanTTL = 7 * 24 * time.Hour
	// DefaultImageTTL is how long a downloaded background stays cached.
	DefaultImageTTL = 24 * time.Hour
)

// Cache is a byte store with per-entry expiry. A miss is (nil, false, nil);
// errors are reserved for backend failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
