package cyro

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

type bodyKind int

const (
	bodyNone bodyKind = iota
	bodyText
	bodyHTML
	bodyJSON
	bodyBinary
	bodyStream
)

// Response accumulates status, headers and body for one dispatch. It has a
// single irreversible transition: once a terminal method (Send, JSON, Text,
// HTML, Binary, Stream, Redirect, End) has run, every mutator is a reported
// no-op. All terminal methods funnel through the one internal end()
// transition, which is how the middleware chain and the dispatcher know
// unambiguously when to stop.
//
// A Response is created fresh per inbound request, owned exclusively by
// that request's dispatch, and handed to the listener via WriteTo.
type Response struct {
	status   int
	header   http.Header
	kind     bodyKind
	body     []byte
	stream   io.Reader
	finished bool
	log      *LogEntry
}

func newResponse(entry *LogEntry) *Response {
	return &Response{
		status: http.StatusOK,
		header: http.Header{},
		log:    entry,
	}
}

// Status sets the response status code. Codes outside 100-599 are reported
// and replaced with 500.
func (r *Response) Status(code int) *Response {
	if r.finished {
		r.warnFinished("Status")
		return r
	}
	if code < 100 || code > 599 {
		slog.Warn("cyro: status code out of range, substituting 500", "code", code)
		code = http.StatusInternalServerError
	}
	r.status = code
	return r
}

// Set sets a single header, replacing any previous value for the name.
func (r *Response) Set(key, value string) *Response {
	if r.finished {
		r.warnFinished("Set")
		return r
	}
	r.header.Set(key, value)
	return r
}

// SetAll merges a map of headers into the response; later writes win per
// name.
func (r *Response) SetAll(h map[string]string) *Response {
	if r.finished {
		r.warnFinished("SetAll")
		return r
	}
	for k, v := range h {
		r.header.Set(k, v)
	}
	return r
}

// AddCookie appends a Set-Cookie header. Unlike ordinary headers, cookies
// are additive.
func (r *Response) AddCookie(c *http.Cookie) *Response {
	if r.finished {
		r.warnFinished("AddCookie")
		return r
	}
	if v := c.String(); v != "" {
		r.header.Add("Set-Cookie", v)
	}
	return r
}

// Get reads a header previously set on the response.
func (r *Response) Get(key string) string { return r.header.Get(key) }

// Code reports the current status code.
func (r *Response) Code() int { return r.status }

// Finished reports whether the terminal transition has happened.
func (r *Response) Finished() bool { return r.finished }

// Body returns the buffered body bytes. It is nil for absent and stream
// bodies.
func (r *Response) Body() []byte { return r.body }

// HeaderMap exposes the full header collection, mainly for tests and
// listener adapters.
func (r *Response) HeaderMap() http.Header { return r.header }

// NoLog suppresses the access-log line for this request.
func (r *Response) NoLog() *Response {
	if r.log != nil {
		r.log.Quiet = true
	}
	return r
}

// LogNote attaches a key/value pair to this request's access-log entry.
func (r *Response) LogNote(key, value string) *Response {
	if r.log != nil {
		r.log.Note[key] = value
	}
	return r
}

// Send finishes the response, picking a Content-Type from the payload
// kind: strings shaped like markup go out as text/html, other strings as
// text/plain, byte slices as application/octet-stream, readers as a
// stream, nil as an empty body, and anything else serializes as JSON.
func (r *Response) Send(body any) {
	switch b := body.(type) {
	case nil:
		r.End()
	case string:
		if looksLikeHTML(b) {
			r.HTML(b)
		} else {
			r.Text(b)
		}
	case []byte:
		r.Binary(b)
	case io.Reader:
		r.Stream(b)
	default:
		r.JSON(b)
	}
}

// JSON serializes v and finishes the response as application/json. A value
// that cannot be serialized is reported and becomes a generic 500; the
// serialization error never reaches the caller.
func (r *Response) JSON(v any) {
	if r.finished {
		r.warnFinished("JSON")
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("cyro: response body failed to serialize", "error", err)
		r.status = http.StatusInternalServerError
		r.setBody(bodyText, []byte(http.StatusText(http.StatusInternalServerError)), "text/plain; charset=utf-8")
		return
	}
	r.setBody(bodyJSON, data, "application/json")
}

// Text finishes the response as text/plain.
func (r *Response) Text(s string) {
	if r.finished {
		r.warnFinished("Text")
		return
	}
	r.setBody(bodyText, []byte(s), "text/plain; charset=utf-8")
}

// HTML finishes the response as text/html.
func (r *Response) HTML(s string) {
	if r.finished {
		r.warnFinished("HTML")
		return
	}
	r.setBody(bodyHTML, []byte(s), "text/html; charset=utf-8")
}

// Binary finishes the response as application/octet-stream.
func (r *Response) Binary(b []byte) {
	if r.finished {
		r.warnFinished("Binary")
		return
	}
	r.setBody(bodyBinary, b, "application/octet-stream")
}

// Stream finishes the response with a body that is copied to the wire when
// the listener serializes it. The Content-Type is left alone if already
// set, otherwise application/octet-stream.
func (r *Response) Stream(rd io.Reader) {
	if r.finished {
		r.warnFinished("Stream")
		return
	}
	if r.header.Get("Content-Type") == "" {
		r.header.Set("Content-Type", "application/octet-stream")
	}
	r.kind = bodyStream
	r.stream = rd
	r.end()
}

// Redirect finishes the response with a Location header. A code of 0 means
// 302 Found; a non-3xx code is reported and replaced with 302.
func (r *Response) Redirect(url string, code int) {
	if r.finished {
		r.warnFinished("Redirect")
		return
	}
	if code == 0 {
		code = http.StatusFound
	}
	if code < 300 || code > 399 {
		slog.Warn("cyro: redirect status outside 3xx, substituting 302", "code", code)
		code = http.StatusFound
	}
	r.status = code
	r.header.Set("Location", url)
	r.kind = bodyNone
	r.end()
}

// End marks the response finished with whatever status, headers and body
// have accumulated. Calling End on a finished response does nothing.
func (r *Response) End() {
	if r.finished {
		return
	}
	r.end()
}

// end is the single terminal transition. Nothing resurrects a finished
// response.
func (r *Response) end() { r.finished = true }

func (r *Response) setBody(kind bodyKind, body []byte, contentType string) {
	r.header.Set("Content-Type", contentType)
	r.kind = kind
	r.body = body
	r.end()
}

func (r *Response) warnFinished(op string) {
	slog.Warn("cyro: response already finished, call ignored", "op", op)
}

// fail overwrites the pending response with a sanitized error and finishes
// it. The dispatcher only calls it on unfinished responses.
func (r *Response) fail(e Error) {
	if r.finished {
		return
	}
	if r.log != nil && r.log.Error == nil {
		r.log.Error = e
	}
	r.status = e.Code
	r.setBody(bodyText, []byte(e.ClientMsg), "text/plain; charset=utf-8")
}

// WriteTo serializes the response onto the wire and reports the number of
// body bytes written.
func (r *Response) WriteTo(w http.ResponseWriter) (int64, error) {
	dst := w.Header()
	for k, vs := range r.header {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
	w.WriteHeader(r.status)
	switch r.kind {
	case bodyNone:
		return 0, nil
	case bodyStream:
		return io.Copy(w, r.stream)
	default:
		n, err := w.Write(r.body)
		return int64(n), err
	}
}

// looksLikeHTML reports whether s is markup-shaped: it begins with '<' and
// ends with '>'.
func looksLikeHTML(s string) bool {
	s = strings.TrimSpace(s)
	return len(s) >= 2 && s[0] == '<' && s[len(s)-1] == '>'
}
