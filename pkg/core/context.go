// SPDX-License-Identifier: Apache-2.0

package core

// Context is the shared per-round state snapshot broadcast to every role.
// Keys are open-ended; each role reads only the keys relevant to it and falls
// back to a fixed default for missing ones. The map is treated as immutable
// for the duration of a round.
type Context map[string]any

// Float returns the numeric value for key, or def when the key is absent or
// not numeric. Integers stored by callers are accepted.
func (c Context) Float(key string, def float64) float64 {
	v, ok := c[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

// Has reports whether key is present with a numeric value. Roles use this to
// decide whether to blend a derived score with the context value.
func (c Context) Has(key string) bool {
	v, ok := c[key]
	if !ok {
		return false
	}
	switch v.(type) {
	case float64, float32, int, int64:
		return true
	}
	return false
}

// String returns the string value for key, or def otherwise.
func (c Context) String(key, def string) string {
	if s, ok := c[key].(string); ok {
		return s
	}
	return def
}

// Clone returns a shallow copy so a round can hold a stable snapshot even if
// the caller mutates its map afterwards.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
