package cache

// ScopedKeyer prefixes every key of an inner [Keyer]. Environments that
// share one Redis ledger use it so "staging:" imports never satisfy a
// "prod:" lookup.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner; a nil inner falls back to [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ImportKey implements [Keyer].
func (k *ScopedKeyer) ImportKey(docHash, target string) string {
	return k.prefix + k.inner.ImportKey(docHash, target)
}
