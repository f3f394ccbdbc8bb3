package shared

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func requestFrom(remoteAddr string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = remoteAddr
	return r
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	r := requestFrom("10.0.0.1:4567")
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	require.Equal(t, "203.0.113.7", ClientIP(r))
}

func TestClientIPStripsPortFromRemoteAddr(t *testing.T) {
	require.Equal(t, "192.0.2.10", ClientIP(requestFrom("192.0.2.10:51234")))
}

func TestClientIPHandlesIPv6RemoteAddr(t *testing.T) {
	require.Equal(t, "::1", ClientIP(requestFrom("[::1]:51234")))
	require.Equal(t, "2001:db8::1", ClientIP(requestFrom("[2001:db8::1]:8080")))
}

func TestClientIPPassesThroughBareAddress(t *testing.T) {
	// Some proxies hand over the remote address without a port.
	require.Equal(t, "192.0.2.10", ClientIP(requestFrom("192.0.2.10")))
}
