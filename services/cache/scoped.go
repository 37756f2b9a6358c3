package cache

import "context"

// Scoped prefixes every key with the scope of the current account, so caches
// shared between processes never serve one account's views to another.
type Scoped struct {
	inner QueryCache
	scope func() string
}

// NewScoped wraps inner. scope is read on every call.
func NewScoped(inner QueryCache, scope func() string) *Scoped {
	return &Scoped{inner: inner, scope: scope}
}

func (c *Scoped) key(k string) string {
	return c.scope() + ":" + k
}

func (c *Scoped) Get(ctx context.Context, key string, out any) (bool, error) {
	return c.inner.Get(ctx, c.key(key), out)
}

func (c *Scoped) Set(ctx context.Context, key string, value any) error {
	return c.inner.Set(ctx, c.key(key), value)
}

// Invalidate drops the matching keys of the current scope only.
func (c *Scoped) Invalidate(ctx context.Context, prefixes ...string) error {
	scoped := make([]string, len(prefixes))
	for i, p := range prefixes {
		scoped[i] = c.key(p)
	}
	return c.inner.Invalidate(ctx, scoped...)
}
