package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several deployments or
// tenants can share one Redis instance.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "pageflow:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// SourceKey generates a prefixed key for parsed documents.
func (k *ScopedKeyer) SourceKey(format, contentHash string) string {
	return k.prefix + k.inner.SourceKey(format, contentHash)
}

// LayoutKey generates a prefixed key for pagination results.
func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}
