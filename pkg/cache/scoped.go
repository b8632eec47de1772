package cache

// ScopedKeyer wraps a Keyer with a prefix for tenant isolation, for
// example one namespace per brand on a shared Redis.
//
//	brandKeyer := NewScopedKeyer(NewDefaultKeyer(), "brand:acme:")
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

// PlanKey generates a prefixed plan key.
func (k *ScopedKeyer) PlanKey(imageHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(imageHash, opts)
}

// ImageKey generates a prefixed image key.
func (k *ScopedKeyer) ImageKey(url string) string {
	return k.prefix + k.inner.ImageKey(url)
}
