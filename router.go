package cyro

import "fmt"

// routeTable maps every supported method to its routes in registration
// order. Order is part of the observable contract: resolve returns the
// first registered route that accepts the path, so a literal route
// registered before a colliding ":param" route wins for the literal path.
//
// The table is mutated only during setup and read concurrently afterwards,
// so it carries no locks.
type routeTable struct {
	byMethod map[Method][]route
}

func newRouteTable() *routeTable {
	t := &routeTable{byMethod: make(map[Method][]route, methodCount)}
	for m := Method(0); m < methodCount; m++ {
		t.byMethod[m] = []route{}
	}
	return t
}

// register compiles the pattern and appends the route. It returns the
// registration fault, if any; a failed registration leaves the table
// untouched.
func (t *routeTable) register(m Method, pattern string, h Handler) error {
	if _, ok := t.byMethod[m]; !ok {
		return fmt.Errorf("%w: %v", ErrUnsupportedMethod, m)
	}
	if h == nil {
		return fmt.Errorf("%w: %v %#q", ErrNilHandler, m, pattern)
	}
	segs, err := compilePattern(pattern)
	if err != nil {
		return err
	}
	t.byMethod[m] = append(t.byMethod[m], route{
		method:  m,
		pattern: pattern,
		segs:    segs,
		handler: h,
		name:    funcName(h),
	})
	return nil
}

// resolve returns the first route registered under m whose pattern accepts
// path, along with the captured parameters, or nil when nothing matches.
func (t *routeTable) resolve(m Method, path string) (*route, Params) {
	routes := t.byMethod[m]
	for i := range routes {
		if params, ok := routes[i].match(path); ok {
			return &routes[i], params
		}
	}
	return nil, nil
}

// exists reports whether m is a recognized table key. It distinguishes an
// unsupported method (a setup fault) from a recognized method with no
// matching route (a plain 404).
func (t *routeTable) exists(m Method) bool {
	_, ok := t.byMethod[m]
	return ok
}
