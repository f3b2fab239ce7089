package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// The server uses this to give each configured feed source its own cache
// namespace, so two deployments sharing one Redis never collide.
//
// Example usage:
//
//	// Per-source keys for the server cache
//	srcKeyer := NewScopedKeyer(NewDefaultKeyer(), "feed:demo:")
//
//	// Global keys for the CLI file cache
//	globalKeyer := NewDefaultKeyer()
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

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// BoardKey generates a prefixed key for resolved-board caching.
func (k *ScopedKeyer) BoardKey(source string, opts BoardKeyOpts) string {
	return k.prefix + k.inner.BoardKey(source, opts)
}

// LayoutKey generates a prefixed key for layout-snapshot caching.
func (k *ScopedKeyer) LayoutKey(boardHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(boardHash, opts)
}

// ArtifactKey generates a prefixed key for rendered-artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
