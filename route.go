package cyro

import (
	"fmt"
	"net/url"
	"strings"
)

// Pattern compilation is a two-phase affair: the pattern is parsed into a
// sequence of tagged segments when the route is registered, and matching
// walks that sequence against the concrete path segments at request time.
// No regular expressions are built from string concatenation.

type segmentKind int

const (
	segLiteral segmentKind = iota
	segParam
	segWildcard
)

type segment struct {
	kind segmentKind
	// literal text, or the parameter name for segParam.
	text string
}

// WildcardKey is the Params key a trailing "*" captures the remaining path
// suffix under.
const WildcardKey = "*"

type route struct {
	method  Method
	pattern string
	segs    []segment
	handler Handler
	// handler identity, for log context when the handler fails.
	name string
}

// compilePattern parses a path pattern into tagged segments. Patterns must
// begin with "/"; ":name" captures one segment, a final "*" captures the
// remaining suffix, and parameter names must be unique within the pattern.
func compilePattern(pattern string) ([]segment, error) {
	if pattern == "" || pattern[0] != '/' {
		return nil, fmt.Errorf("%w: %#q must begin with /", ErrBadPattern, pattern)
	}
	parts := strings.Split(pattern[1:], "/")
	segs := make([]segment, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for i, part := range parts {
		switch {
		case part == "*":
			if i != len(parts)-1 {
				return nil, fmt.Errorf("%w: wildcard must be the final segment of %#q", ErrBadPattern, pattern)
			}
			segs = append(segs, segment{kind: segWildcard, text: WildcardKey})
		case strings.HasPrefix(part, ":"):
			name := part[1:]
			if name == "" {
				return nil, fmt.Errorf("%w: empty parameter name in %#q", ErrBadPattern, pattern)
			}
			if seen[name] {
				return nil, fmt.Errorf("%w: parameter %#q used twice in %#q", ErrBadPattern, name, pattern)
			}
			seen[name] = true
			segs = append(segs, segment{kind: segParam, text: name})
		default:
			segs = append(segs, segment{kind: segLiteral, text: part})
		}
	}
	return segs, nil
}

// match walks the compiled pattern and the path segments together. On
// success it returns the captured parameters: ":name" values are
// URL-decoded, the wildcard remainder (possibly empty) is stored under
// WildcardKey.
func (rt *route) match(path string) (Params, bool) {
	if path == "" || path[0] != '/' {
		return nil, false
	}
	parts := strings.Split(path[1:], "/")
	params := Params{}
	for i, seg := range rt.segs {
		if seg.kind == segWildcard {
			params[WildcardKey] = strings.Join(parts[i:], "/")
			return params, true
		}
		if i >= len(parts) {
			return nil, false
		}
		switch seg.kind {
		case segLiteral:
			if parts[i] != seg.text {
				return nil, false
			}
		case segParam:
			if parts[i] == "" {
				return nil, false
			}
			val, err := url.PathUnescape(parts[i])
			if err != nil {
				val = parts[i]
			}
			params[seg.text] = val
		}
	}
	if len(parts) != len(rt.segs) {
		return nil, false
	}
	return params, true
}
