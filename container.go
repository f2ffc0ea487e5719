package safedecoding

import "sort"

// Container provides keyed-container lookup over a decoded object value. It
// is the engine-side view of the wire decoder collaborator.
type Container struct {
	m map[string]any
}

// AsContainer wraps v when it is an object value.
func AsContainer(v any) (Container, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Container{}, false
	}
	return Container{m: m}, true
}

// Has reports key presence.
func (c Container) Has(key string) bool {
	_, ok := c.m[key]
	return ok
}

// Get returns the value under key and whether it was present.
func (c Container) Get(key string) (any, bool) {
	v, ok := c.m[key]
	return v, ok
}

// Len returns the number of keys.
func (c Container) Len() int { return len(c.m) }

// Keys returns all keys in ascending order for deterministic iteration.
func (c Container) Keys() []string {
	ks := make([]string, 0, len(c.m))
	for k := range c.m {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// Result captures the outcome of decoding a single element or value without
// propagating the failure. It is an explicit two-variant value: exactly one
// of Value/Err is meaningful.
type Result struct {
	value any
	err   error
}

// capture runs fn and records success or failure. It never returns an error
// to the caller.
func capture(fn func() (any, error)) Result {
	v, err := fn()
	if err != nil {
		return Result{err: err}
	}
	return Result{value: v}
}

// Ok reports whether the decode succeeded.
func (r Result) Ok() bool { return r.err == nil }

// Value returns the decoded value; meaningful only when Ok.
func (r Result) Value() any { return r.value }

// Err returns the causing error; nil when Ok.
func (r Result) Err() error { return r.err }
