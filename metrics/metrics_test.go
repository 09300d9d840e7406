package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapCountsByStatusClass(t *testing.T) {
	RequestsTotal.Reset()
	RequestDuration.Reset()

	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fine"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	handler := Wrap(mux)

	for i := 0; i < 3; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ok", nil))
	}
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/ok", nil))

	assert.Equal(t, float64(3), testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "4xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(RequestsTotal.WithLabelValues("POST", "2xx")))
}

func TestStatusWriterImplicit200(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}
	sw.Write([]byte("no explicit WriteHeader"))
	assert.Equal(t, http.StatusOK, sw.status)

	// a WriteHeader after the body started must not change the recorded status
	sw.WriteHeader(http.StatusTeapot)
	assert.Equal(t, http.StatusOK, sw.status)
}

func TestExposeServesScrape(t *testing.T) {
	RequestsTotal.Reset()
	RequestsTotal.WithLabelValues("GET", "2xx").Inc()

	w := httptest.NewRecorder()
	Expose().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "cyro_requests_total"),
		"scrape output should include the request counter")
}
