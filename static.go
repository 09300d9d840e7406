package cyro

import (
	"bytes"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"
)

// ServeFS returns a handler that serves static files from f, rooted at
// fsRoot, using the dynamic parameter param as the relative file path.
// This pairs naturally with a wildcard route and embedded files:
//
//	//go:embed static
//	var assets embed.FS
//
//	app.Get("/css/*", cyro.ServeFS(assets, "static/css", cyro.WildcardKey))
//
// A missing or escaping path yields a plain 404.
func ServeFS(f fs.FS, fsRoot, param string) Handler {
	sub, err := fs.Sub(f, fsRoot)
	if err != nil {
		panic(err)
	}
	return func(r *http.Request, res *Response, c *Context) error {
		name := path.Clean(strings.TrimPrefix(c.Param(param), "/"))
		if name == "." || name == ".." || strings.HasPrefix(name, "../") {
			notFound(res)
			return nil
		}
		data, err := fs.ReadFile(sub, name)
		if err != nil {
			notFound(res)
			return nil
		}
		if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
			res.Set("Content-Type", ct)
		}
		res.Stream(bytes.NewReader(data))
		return nil
	}
}

func notFound(res *Response) {
	res.Status(http.StatusNotFound).Text(http.StatusText(http.StatusNotFound))
}
