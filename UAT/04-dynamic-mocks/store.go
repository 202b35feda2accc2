package dynamic

// Counter is spied on without generated code.
type Counter struct {
	n int
}

// Load returns the current count.
func (c *Counter) Load() int { return c.n }

// Events returns the count changes.
func (c *Counter) Events() <-chan int { return nil }

// Bump increments the count by delta.
func (c *Counter) Bump(delta int) { c.n += delta }

// Store is an interface spied on without generated code.
type Store interface {
	Get(key string) (string, bool)
	Put(key, value string)
}

// CachedGet reads key from the store, falling back to def.
func CachedGet(get func(key string) (string, bool), key, def string) string {
	if value, ok := get(key); ok {
		return value
	}

	return def
}
