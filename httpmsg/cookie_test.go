package httpmsg

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetCookieFormatsAttributes(t *testing.T) {
	var h Header
	age := 3600
	SetCookie(&h, "session", "abc123", &age, "/app")

	require.Equal(t, `session="abc123"; Version="1"; Path="/app"; Max-Age="3600"`, h.Get("Set-Cookie"))
}

func TestSetCookieMaxAgeZeroMeansDeleteImmediately(t *testing.T) {
	var h Header
	zero := 0
	SetCookie(&h, "session", "", &zero, "")

	require.Equal(t, `session=""; Version="1"; Max-Age="0"`, h.Get("Set-Cookie"))
}

func TestParseCookiesSplitsMultipleEntries(t *testing.T) {
	v := ParseCookies(`a=1; b="2"; c=3`)
	require.Equal(t, "1", v.Get("a"))
	require.Equal(t, "2", v.Get("b"))
	require.Equal(t, "3", v.Get("c"))
}
