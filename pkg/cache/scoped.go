package cache

// ScopedKeyer wraps a Keyer with a prefix, giving each preview server or
// user its own key namespace in a shared backend.
//
//	serverKeyer := NewScopedKeyer(NewDefaultKeyer(), "serve:dashboard.json:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(panelsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(panelsHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
