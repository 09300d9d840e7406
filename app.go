package cyro

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"runtime"
)

// Handler is the user-supplied endpoint for a route. The response and
// context are owned by the current dispatch. A non-nil error (or a panic)
// is caught at the dispatch boundary and becomes a sanitized 500, unless
// it is a cyro.Error carrying its own status code.
type Handler func(r *http.Request, res *Response, c *Context) error

// App wires the route table and the middleware chain into a dispatcher.
// Registration is not safe for concurrent use; finish wiring routes and
// middleware before serving, after which dispatches may overlap freely —
// each in-flight request exclusively owns its Response and Context.
type App struct {
	table       *routeTable
	mw          mwChain
	logRequests bool
}

// New returns an empty App with no middleware installed and access logging
// off.
func New() *App {
	return &App{table: newRouteTable()}
}

// Default returns an App with the usual trimmings: request-ID tagging and
// the per-request access log.
func Default() *App {
	a := New()
	a.logRequests = true
	a.Use(RequestID)
	return a
}

// LogRequests turns the per-request access log on or off.
func (a *App) LogRequests(on bool) { a.logRequests = on }

// Use appends m to the middleware chain. Middleware runs before routing,
// in registration order. A nil middleware is reported and skipped.
func (a *App) Use(m Middleware) {
	if err := a.mw.append(m); err != nil {
		slog.Error("cyro: middleware not registered", "error", err)
	}
}

// Route registers a handler for the given method string and path pattern,
// returning the registration fault, if any. The per-verb wrappers are the
// usual way in; Route is for callers that want the error.
func (a *App) Route(method, path string, h Handler) error {
	m, ok := ParseMethod(method)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedMethod, method)
	}
	return a.table.register(m, path, h)
}

// Get registers h for GET requests on path. A bad registration is reported
// and the route skipped, never fatal.
func (a *App) Get(path string, h Handler) { a.register(MethodGet, path, h) }

// Post registers h for POST requests on path.
func (a *App) Post(path string, h Handler) { a.register(MethodPost, path, h) }

// Put registers h for PUT requests on path.
func (a *App) Put(path string, h Handler) { a.register(MethodPut, path, h) }

// Delete registers h for DELETE requests on path.
func (a *App) Delete(path string, h Handler) { a.register(MethodDelete, path, h) }

// Patch registers h for PATCH requests on path.
func (a *App) Patch(path string, h Handler) { a.register(MethodPatch, path, h) }

// Head registers h for HEAD requests on path.
func (a *App) Head(path string, h Handler) { a.register(MethodHead, path, h) }

// Options registers h for OPTIONS requests on path.
func (a *App) Options(path string, h Handler) { a.register(MethodOptions, path, h) }

func (a *App) register(m Method, path string, h Handler) {
	if err := a.table.register(m, path, h); err != nil {
		slog.Error("cyro: route not registered",
			"method", m.String(), "path", path, "error", err)
	}
}

// Dispatch runs one inbound request through the middleware chain, the
// route table and the matched handler, and always returns exactly one
// finished Response. No fault raised by user middleware or handlers
// escapes.
func (a *App) Dispatch(r *http.Request) *Response {
	res := newResponse(nil)
	a.dispatch(r, res)
	return res
}

func (a *App) dispatch(r *http.Request, res *Response) {
	// Whichever step short-circuits, the response leaves here finished.
	defer res.End()

	if a.mw.run(r, res) {
		return
	}

	u, err := requestURL(r)
	if err != nil {
		slog.Warn("cyro: unparseable request URL", "url", r.RequestURI, "error", err)
		res.fail(Error{Code: http.StatusBadRequest, ClientMsg: http.StatusText(http.StatusBadRequest)})
		return
	}

	method, ok := ParseMethod(r.Method)
	if !ok || !a.table.exists(method) {
		// A verb outside the fixed set means the listener or the setup is
		// wired wrong, not that the client asked for a missing page.
		slog.Error("cyro: method not recognized by route table",
			"method", r.Method, "path", u.Path)
		res.fail(Error{Code: http.StatusInternalServerError, ClientMsg: http.StatusText(http.StatusInternalServerError)})
		return
	}

	rt, params := a.table.resolve(method, u.Path)
	if rt == nil {
		res.fail(Error{Code: http.StatusNotFound, ClientMsg: http.StatusText(http.StatusNotFound)})
		return
	}

	ctx := &Context{Dynamic: params, Query: queryParams(u)}
	if err := invokeHandler(rt.handler, r, res, ctx); err != nil {
		e := ToError(err)
		slog.Error("cyro: handler failed",
			"method", method.String(),
			"pattern", rt.pattern,
			"handler", rt.name,
			"error", e,
		)
		res.fail(e)
	}
}

// ServeHTTP implements http.Handler, bridging a net/http listener onto the
// dispatcher.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var entry *LogEntry
	if a.logRequests {
		entry = NewLogEntry(r)
	}
	res := newResponse(entry)
	a.dispatch(r, res)
	n, err := res.WriteTo(w)
	if err != nil {
		slog.Warn("cyro: writing response", "error", err)
	}
	if entry != nil {
		entry.Commit(res.Code(), int(n))
	}
}

// invokeHandler converts a panic inside a handler into an error so the
// dispatch loop never crashes on user code.
func invokeHandler(h Handler, r *http.Request, res *Response, c *Context) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return h(r, res, c)
}

// requestURL returns the parsed request URL, re-parsing the raw request
// line when the listener supplied one.
func requestURL(r *http.Request) (*url.URL, error) {
	if r.RequestURI != "" {
		return url.ParseRequestURI(r.RequestURI)
	}
	if r.URL != nil {
		return r.URL, nil
	}
	return nil, errors.New("request has no URL")
}

// queryParams flattens the parsed query. Repeated keys keep the last
// occurrence.
func queryParams(u *url.URL) map[string]string {
	q := u.Query()
	out := make(map[string]string, len(q))
	for k, vs := range q {
		if len(vs) > 0 {
			out[k] = vs[len(vs)-1]
		}
	}
	return out
}

// funcName reports the fully qualified name of a handler or middleware
// function, for log context.
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		return "unknown"
	}
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		return f.Name()
	}
	return "unknown"
}
