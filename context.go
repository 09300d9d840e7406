package cyro

// Params holds the dynamic path segments captured while matching a route
// pattern, keyed by parameter name. A wildcard remainder is stored under
// WildcardKey.
type Params map[string]string

// Context carries the per-request values a handler needs beyond the raw
// request: the dynamic path parameters and the parsed query parameters.
// It is built after the route match and discarded when the handler
// returns.
//
// For repeated query keys the last occurrence wins.
type Context struct {
	Dynamic Params
	Query   map[string]string

	items map[string]any
}

// Param returns the dynamic path parameter captured under name.
func (c *Context) Param(name string) string { return c.Dynamic[name] }

// SetItem stashes an arbitrary per-request value, letting handler wrappers
// pass derived state (an authenticated subject, a loaded record) to the
// handlers they wrap.
func (c *Context) SetItem(key string, value any) {
	if c.items == nil {
		c.items = make(map[string]any)
	}
	c.items[key] = value
}

// Item returns a value stored with SetItem, or nil.
func (c *Context) Item(key string) any { return c.items[key] }
