package cyro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMethod(t *testing.T) {
	for m := Method(0); m < methodCount; m++ {
		parsed, ok := ParseMethod(m.String())
		assert.True(t, ok, "%v should round-trip", m)
		assert.Equal(t, m, parsed)
	}

	for _, verb := range []string{"TRACE", "CONNECT", "get", "", "BREW"} {
		_, ok := ParseMethod(verb)
		assert.False(t, ok, "%q is outside the supported set", verb)
	}
}

func TestMethodString(t *testing.T) {
	assert.Equal(t, "GET", MethodGet.String())
	assert.Equal(t, "OPTIONS", MethodOptions.String())
	assert.Equal(t, "INVALID", Method(42).String())
}
