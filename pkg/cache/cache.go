// Package cache provides the key/value cache used by the CLI and the layout
// server to avoid refetching family documents and recomputing layouts.
//
// Backends:
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: shared cache for the layout server
//   - [NullCache]: disables caching
//
// Keys are produced by a [Keyer] so that every backend sees the same layout
// of namespaces. Family documents are keyed by API id, layouts by the hash
// of the document they were built from.
package cache

import (
	"context"
	"time"
)

// Default time-to-live per namespace.
const (
	// TTLFamily bounds how stale a fetched family document may be.
	TTLFamily = 10 * time.Minute

	// TTLLayout is long because layout keys are content hashes.
	TTLLayout = 24 * time.Hour
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil). A ttl of 0 passed to Set means
// the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// FamilyKey keys a family document fetched from the API.
	FamilyKey(familyID string) string

	// LayoutKey keys a computed layout by the hash of its source document.
	LayoutKey(docHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the inputs besides the document that change a layout
// result. Format is empty for the bare layout.
type LayoutKeyOpts struct {
	Format string `json:"format,omitempty"`
}

// DefaultKeyer is the unprefixed [Keyer].
type DefaultKeyer struct{}

// NewDefaultKeyer returns a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FamilyKey returns "family:<id>".
func (DefaultKeyer) FamilyKey(familyID string) string {
	return "family:" + familyID
}

// LayoutKey returns "layout:<sha256>" over the document hash and options.
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}
