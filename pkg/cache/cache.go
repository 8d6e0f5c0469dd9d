// Package cache stores pagination results keyed by their inputs.
//
// Paginating a large document is deterministic: the same document, page size
// and text metrics always produce the same fragments. The CLI and the API
// server key results by a hash of those inputs and keep them in a [Cache].
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI.
//   - [RedisCache]: a shared Redis instance, for the API server.
//   - [NullCache]: stores nothing; used when caching is disabled.
//
// # Keys
//
// A [Keyer] builds keys. [DefaultKeyer] hashes every option into the key;
// [ScopedKeyer] adds a namespace prefix.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// SourceKey keys a document parsed from a source file.
	SourceKey(format, contentHash string) string

	// LayoutKey keys a pagination result for a document.
	LayoutKey(docHash string, opts LayoutKeyOpts) string
}

// LayoutKeyOpts are the pagination inputs besides the document itself.
type LayoutKeyOpts struct {
	PageWidth    float64 `json:"page_width"`
	PageHeight   float64 `json:"page_height"`
	FontSize     float64 `json:"font_size"`
	LineHeight   float64 `json:"line_height"`
	Advance      float64 `json:"advance"`
	MaxFragments int     `json:"max_fragments"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// SourceKey returns "source:<format>:<hash>".
func (DefaultKeyer) SourceKey(format, contentHash string) string {
	return "source:" + format + ":" + contentHash
}

// LayoutKey returns "layout:" followed by a hash of the document hash and
// every option.
func (DefaultKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", docHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = DefaultKeyer{}
