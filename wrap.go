package cyro

import (
	"bytes"
	"net/http"
)

// WrapHTTP adapts a stdlib http.Handler onto a cyro route. The handler
// runs against an in-memory recorder and the result is copied into the
// Response, so the once-finished contract still holds for wrapped
// handlers:
//
//	app.Get("/metrics", cyro.WrapHTTP(promhttp.Handler()))
func WrapHTTP(h http.Handler) Handler {
	return func(r *http.Request, res *Response, c *Context) error {
		rec := &recorder{header: http.Header{}, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		for k, vs := range rec.header {
			for _, v := range vs {
				res.header.Add(k, v)
			}
		}
		res.Status(rec.status)
		res.kind = bodyBinary
		res.body = rec.buf.Bytes()
		res.end()
		return nil
	}
}

// recorder is a minimal http.ResponseWriter capturing status, headers and
// body in memory. First WriteHeader wins, matching net/http semantics.
type recorder struct {
	header http.Header
	status int
	wrote  bool
	buf    bytes.Buffer
}

func (w *recorder) Header() http.Header { return w.header }

func (w *recorder) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
}

func (w *recorder) Write(p []byte) (int, error) {
	w.wrote = true
	return w.buf.Write(p)
}
