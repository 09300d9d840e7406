package cyro

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uuid "github.com/satori/go.uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDAssignsFreshID(t *testing.T) {
	app := Default()
	app.Get("/", named("root"))

	res := app.Dispatch(get("/"))
	id := res.Get(HeaderRequestID)
	require.NotEmpty(t, id)
	_, err := uuid.FromString(id)
	assert.NoError(t, err, "generated request ID should be a UUID")

	// a second request gets a different ID
	res2 := app.Dispatch(get("/"))
	assert.NotEqual(t, id, res2.Get(HeaderRequestID))
}

func TestRequestIDReusesInboundID(t *testing.T) {
	app := Default()
	app.Get("/", named("root"))

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(HeaderRequestID, "caller-supplied")
	res := app.Dispatch(req)
	assert.Equal(t, "caller-supplied", res.Get(HeaderRequestID))
}

func TestRequestIDSurvivesFailure(t *testing.T) {
	app := Default()
	app.Get("/boom", func(r *http.Request, res *Response, c *Context) error {
		panic("down we go")
	})

	res := app.Dispatch(get("/boom"))
	assert.Equal(t, http.StatusInternalServerError, res.Code())
	assert.NotEmpty(t, res.Get(HeaderRequestID), "failed responses keep their request ID")
}
