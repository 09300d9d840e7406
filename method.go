package cyro

// Method identifies one of the HTTP verbs the router supports. The set is
// closed: a verb can only enter the route table through ParseMethod, which
// refuses anything outside it.
type Method int

const (
	MethodGet Method = iota
	MethodPost
	MethodPut
	MethodDelete
	MethodPatch
	MethodHead
	MethodOptions

	methodCount
)

var methodNames = [methodCount]string{
	MethodGet:     "GET",
	MethodPost:    "POST",
	MethodPut:     "PUT",
	MethodDelete:  "DELETE",
	MethodPatch:   "PATCH",
	MethodHead:    "HEAD",
	MethodOptions: "OPTIONS",
}

func (m Method) String() string {
	if m < 0 || m >= methodCount {
		return "INVALID"
	}
	return methodNames[m]
}

// ParseMethod maps a wire-level method string onto the closed verb set.
func ParseMethod(s string) (Method, bool) {
	for m := Method(0); m < methodCount; m++ {
		if methodNames[m] == s {
			return m, true
		}
	}
	return 0, false
}
