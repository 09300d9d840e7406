package cyro

import (
	"compress/gzip"
	"net/http"
	"strings"
)

const (
	headerAcceptEncoding  = "Accept-Encoding"
	headerContentEncoding = "Content-Encoding"
	headerContentLength   = "Content-Length"
	headerContentType     = "Content-Type"
	headerVary            = "Vary"
)

// Gzip wraps an http.Handler (typically the App itself) to compress
// responses for clients that accept it:
//
//	http.ListenAndServe(":8080", cyro.Gzip(app))
//
// Note that this does NOT auto-detect the content and disable compression
// for already-compressed data (e.g. jpg images).
func Gzip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get(headerAcceptEncoding), "gzip") {
			next.ServeHTTP(w, r)
			return
		}
		headers := w.Header()
		headers.Set(headerContentEncoding, "gzip")
		headers.Set(headerVary, headerAcceptEncoding)
		headers.Del(headerContentLength)

		gz := &gzipWriter{ResponseWriter: w, w: gzip.NewWriter(w)}
		defer gz.close()
		next.ServeHTTP(gz, r)
	})
}

type gzipWriter struct {
	http.ResponseWriter
	w *gzip.Writer
}

func (g *gzipWriter) Write(p []byte) (int, error) {
	return g.w.Write(p)
}

func (g *gzipWriter) close() {
	g.w.Close()
}
