package cyro

import (
	"fmt"
	"log/slog"
	"net/http"
)

// Middleware is a cross-cutting interceptor that runs before routing. It
// may mutate the response freely; finishing the response halts the chain
// and skips routing entirely. Returning an error (or panicking) halts the
// chain with a generic 500 — the underlying failure is logged, never sent
// to the caller.
type Middleware func(r *http.Request, res *Response) error

// mwChain is the append-only ordered middleware sequence. Entries are
// added only during setup and read concurrently afterwards, so it carries
// no locks. There is no removal operation.
type mwChain struct {
	entries []Middleware
}

func (c *mwChain) append(m Middleware) error {
	if m == nil {
		return ErrNilMiddleware
	}
	c.entries = append(c.entries, m)
	return nil
}

// run executes every middleware strictly in registration order, each to
// completion before the next begins. It reports true when the chain
// terminated the request: either a middleware finished the response, or
// one failed and the response was replaced with a generic 500. False means
// pass-through and the dispatcher proceeds to routing.
func (c *mwChain) run(r *http.Request, res *Response) bool {
	for i, m := range c.entries {
		if err := invokeMiddleware(m, r, res); err != nil {
			slog.Error("cyro: middleware failed",
				"index", i,
				"middleware", funcName(m),
				"error", err,
			)
			res.fail(ToError(err))
			return true
		}
		if res.Finished() {
			return true
		}
	}
	return false
}

// invokeMiddleware converts a panic inside user middleware into an error,
// keeping the chain boundary intact.
func invokeMiddleware(m Middleware, r *http.Request, res *Response) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return m(r, res)
}
