package cyro

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestServeFS(t *testing.T) {
	assets := fstest.MapFS{
		"static/css/site.css":  {Data: []byte("body { color: red }")},
		"static/img/logo.png":  {Data: []byte{0x89, 'P', 'N', 'G'}},
		"static/secret/key.pm": {Data: []byte("private")},
	}

	app := New()
	app.Get("/css/*", ServeFS(assets, "static/css", WildcardKey))

	serve := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		app.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		return w
	}

	w := serve("/css/site.css")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "body { color: red }", w.Body.String())
	assert.Equal(t, "text/css; charset=utf-8", w.Header().Get("Content-Type"))

	w = serve("/css/missing.css")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// path traversal must not escape the subtree
	w = serve("/css/..%2F..%2Fsecret%2Fkey.pm")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), "private")

	w = serve("/css/")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServeFSBadRootPanics(t *testing.T) {
	assert.Panics(t, func() {
		ServeFS(fstest.MapFS{}, "../escapes", WildcardKey)
	})
}
