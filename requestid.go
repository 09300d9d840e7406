package cyro

import (
	"net/http"

	uuid "github.com/satori/go.uuid"
)

// HeaderRequestID is the header carrying the per-request identity.
const HeaderRequestID = "X-Request-Id"

// RequestID is a middleware that tags every response with a fresh UUID,
// reusing the caller's value when the inbound request already carries one.
// It is installed by Default().
func RequestID(r *http.Request, res *Response) error {
	id := r.Header.Get(HeaderRequestID)
	if id == "" {
		id = uuid.NewV4().String()
	}
	res.Set(HeaderRequestID, id)
	return nil
}
