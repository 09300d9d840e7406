package cyro

import (
	"errors"
	"fmt"
	"net/http"
)

// Registration faults. A route or middleware that fails registration is
// reported and skipped; it never takes the process down.
var (
	ErrUnsupportedMethod = errors.New("unsupported method")
	ErrBadPattern        = errors.New("bad pattern")
	ErrNilHandler        = errors.New("nil handler")
	ErrNilMiddleware     = errors.New("nil middleware")
)

// Error lets a handler or middleware pick the HTTP status code and the
// client-facing message for a failure:
//   - Code is the status used in the response.
//   - ClientMsg is what the caller sees, typically a sanitized message
//     such as "Internal Server Error".
//   - LogMsg and Cause are internal detail that only ever reaches the
//     server logs.
//
// Cause may be nil.
type Error struct {
	Code      int
	ClientMsg string
	LogMsg    string
	Cause     error
}

func (e Error) Error() string {
	return fmt.Sprintf("[%d] %s: %v", e.Code, e.LogMsg, e.Cause)
}

func (e Error) Unwrap() error { return e.Cause }

// ToError normalizes any error into an Error, filling in a 500 code and a
// sanitized client message when the failing code didn't choose one.
func ToError(err error) Error {
	var e Error
	if !errors.As(err, &e) {
		e = Error{LogMsg: "failure", Cause: err}
	}
	if e.Code == 0 {
		e.Code = http.StatusInternalServerError
	}
	if e.ClientMsg == "" {
		e.ClientMsg = http.StatusText(e.Code)
	}
	return e
}
