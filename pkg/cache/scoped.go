package cache

// ScopedKeyer wraps a Keyer with a prefix so that several users can share
// one cache backend without seeing each other's family documents.
//
// Example usage:
//
//	// Per-user keys on a shared redis
//	userKeyer := NewScopedKeyer(NewDefaultKeyer(), "user:42:")
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

// FamilyKey generates a prefixed key for a family document.
func (k *ScopedKeyer) FamilyKey(familyID string) string {
	return k.prefix + k.inner.FamilyKey(familyID)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(docHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(docHash, opts)
}
