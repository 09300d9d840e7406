package cyro

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

// Injected for testing
var time_Now = time.Now
var os_Stderr io.Writer = os.Stderr

// LogEntry is the per-request access-log record. All fields other than
// Note are filled in by the dispatcher. Note is a generic key-value map
// for per-request metadata; handlers add to it through Response.LogNote.
type LogEntry struct {
	RemoteIp     string
	Start        time.Time
	Method       string
	RequestURI   string
	StatusCode   int
	ResponseSize int
	Elapsed      time.Duration
	Error        error
	Note         map[string]string
	// set to true to suppress logging this request
	Quiet bool
}

// NewLogEntry creates a *LogEntry and initializes it with basic request
// information.
func NewLogEntry(r *http.Request) *LogEntry {
	return &LogEntry{
		RemoteIp:   remoteIp(r),
		Start:      time_Now(),
		Method:     r.Method,
		RequestURI: r.RequestURI,
		Note:       map[string]string{},
	}
}

// Commit fills in the remaining fields and writes the entry out.
func (entry *LogEntry) Commit(status, size int) {
	entry.Elapsed = time_Now().Sub(entry.Start)
	entry.StatusCode = status
	entry.ResponseSize = size
	WriteLog(*entry)
}

// Some nice escape codes
const (
	_GREEN  = "\033[32m"
	_YELLOW = "\033[33m"
	_RESET  = "\033[0m"
	_RED    = "\033[91m"
)

// WriteLog is called to actually write a LogEntry out to the log. By
// default it writes to stderr and colors normal requests green, slow
// requests yellow, and errors red. Replace it to adjust the formatting or
// to route entries into whatever logging setup you prefer.
var WriteLog = func(e LogEntry) {
	if e.Quiet {
		return
	}
	col, reset := logColors(e)
	fmt.Fprintf(os_Stderr, "%s%s %s \"%s %s\" (%d %dB %s) %s%s\n",
		col,
		e.Start.Format(time.RFC3339), e.RemoteIp,
		e.Method, e.RequestURI,
		e.StatusCode, e.ResponseSize, e.Elapsed,
		e.NotesAndError(),
		reset)
}

// NotesAndError formats the Note values and error (if any) for logging.
func (e LogEntry) NotesAndError() string {
	pairs := make([]string, 0, len(e.Note))
	for k, v := range e.Note {
		pairs = append(pairs, fmt.Sprintf("%s=%q", k, v))
	}
	sort.Strings(pairs)
	msg := strings.Join(pairs, " ")
	if e.Error != nil {
		msg += "\n  ERROR: " + e.Error.Error()
	}
	return msg
}

func logColors(e LogEntry) (start, reset string) {
	col, reset := _GREEN, _RESET
	if e.Elapsed > 30*time.Millisecond {
		col = _YELLOW
	}
	if e.StatusCode >= 400 || e.Error != nil {
		col = _RED
	}
	return col, reset
}

// remoteIp extracts the remote IP from the request, preferring the usual
// proxy headers over the socket address.
func remoteIp(r *http.Request) string {
	if addr := r.Header.Get("X-Real-IP"); addr != "" {
		return addr
	} else if addr := r.Header.Get("X-Forwarded-For"); addr != "" {
		return addr
	}
	return r.RemoteAddr
}
