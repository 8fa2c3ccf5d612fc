package serializer

import "sync/atomic"

// SourceProvider computes the process-wide source URI stamped onto
// freshly created envelopes. The URI may be relative.
type SourceProvider interface {
	Compute() (string, error)
}

// StaticSource is a SourceProvider that always returns a fixed URI,
// useful for tests and simple deployments with no discovery step.
type StaticSource string

// Compute returns s unconditionally.
func (s StaticSource) Compute() (string, error) { return string(s), nil }

// cachedSource wraps a SourceProvider with first-writer-wins caching:
// Compute is invoked on every call until the first successful result
// lands, after which every caller observes the cached value. A race
// between concurrent first calls may invoke the inner provider more than
// once; the redundant computation is benign since all of them agree on
// the same answer.
type cachedSource struct {
	inner SourceProvider
	value atomic.Pointer[string]
}

func newCachedSource(inner SourceProvider) *cachedSource {
	return &cachedSource{inner: inner}
}

func (c *cachedSource) Compute() (string, error) {
	if v := c.value.Load(); v != nil {
		return *v, nil
	}
	v, err := c.inner.Compute()
	if err != nil {
		return "", err
	}
	if !c.value.CompareAndSwap(nil, &v) {
		return *c.value.Load(), nil
	}
	return v, nil
}
