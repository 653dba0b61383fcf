package httpserver

import (
	"bufio"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yourusername/relay/httpauth"
)

func TestBasicAuthRejectsThenAcceptsOnSameConnection(t *testing.T) {
	policy := httpauth.NewPolicy()
	policy.Restrict("/secret")
	store := httpauth.NewMemoryUserStore()
	require.NoError(t, store.Add("alice", "hunter2"))

	conn := startServer(t, func(s *Server) {
		s.cfg.Authenticator = httpauth.NewBasicAuthenticator(policy, store, "test-realm", 0)
		s.Handle("/secret", func(rc *RequestContext) {
			rc.Writer.Response().Body = []byte("top secret")
			_ = rc.Writer.Send(rc.Ctx)
		})
	})
	r := bufio.NewReader(conn)

	// No credentials: 401 with WWW-Authenticate, connection stays open
	// (no Connection: close on this request).
	conn.Write([]byte("GET /secret HTTP/1.1\r\nHost: a\r\n\r\n"))
	require.Equal(t, "HTTP/1.1 401 Unauthorized\r\n", readResponseLine(t, r))
	sawAuthenticate := false
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if line == "\r\n" {
			break
		}
		if line == "WWW-Authenticate: Basic realm=\"test-realm\"\r\n" {
			sawAuthenticate = true
		}
	}
	require.True(t, sawAuthenticate, "expected WWW-Authenticate challenge header")
	body := make([]byte, len("401 Unauthorized\n"))
	_, err := r.Read(body)
	require.NoError(t, err)

	// Correct credentials on the same keep-alive connection: 200.
	creds := base64.StdEncoding.EncodeToString([]byte("alice:hunter2"))
	conn.Write([]byte("GET /secret HTTP/1.1\r\nHost: a\r\nAuthorization: Basic " + creds + "\r\nConnection: close\r\n\r\n"))
	require.Equal(t, "HTTP/1.1 200 OK\r\n", readResponseLine(t, r))
}

func TestBasicAuthWrongPasswordRejected(t *testing.T) {
	policy := httpauth.NewPolicy()
	policy.Restrict("/secret")
	store := httpauth.NewMemoryUserStore()
	require.NoError(t, store.Add("alice", "hunter2"))

	conn := startServer(t, func(s *Server) {
		s.cfg.Authenticator = httpauth.NewBasicAuthenticator(policy, store, "test-realm", 0)
		s.Handle("/secret", func(rc *RequestContext) {
			rc.Writer.Response().Body = []byte("top secret")
			_ = rc.Writer.Send(rc.Ctx)
		})
	})
	r := bufio.NewReader(conn)

	creds := base64.StdEncoding.EncodeToString([]byte("alice:wrong"))
	conn.Write([]byte("GET /secret HTTP/1.1\r\nHost: a\r\nAuthorization: Basic " + creds + "\r\nConnection: close\r\n\r\n"))
	require.Equal(t, "HTTP/1.1 401 Unauthorized\r\n", readResponseLine(t, r))
}

func TestBasicAuthPermitOverridesNestedRestrict(t *testing.T) {
	policy := httpauth.NewPolicy()
	policy.Restrict("/admin")
	policy.Permit("/admin/health")
	store := httpauth.NewMemoryUserStore()

	conn := startServer(t, func(s *Server) {
		s.cfg.Authenticator = httpauth.NewBasicAuthenticator(policy, store, "test-realm", 0)
		s.Handle("/admin/health", func(rc *RequestContext) {
			rc.Writer.Response().Body = []byte("ok")
			_ = rc.Writer.Send(rc.Ctx)
		})
	})
	r := bufio.NewReader(conn)

	conn.Write([]byte("GET /admin/health HTTP/1.1\r\nHost: a\r\nConnection: close\r\n\r\n"))
	require.Equal(t, "HTTP/1.1 200 OK\r\n", readResponseLine(t, r))
}
