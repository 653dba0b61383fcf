package httpauth

import (
	"context"
	"strings"
	"time"

	"github.com/yourusername/relay/httpmsg"
	"github.com/yourusername/relay/httpparse"
	"github.com/yourusername/relay/httpwrite"
)

// BasicAuthenticator implements RFC 7617 HTTP Basic authentication over a
// Policy and UserStore.
type BasicAuthenticator struct {
	Policy *Policy
	Store  UserStore
	Realm  string

	cache *credentialCache
}

// NewBasicAuthenticator constructs a BasicAuthenticator. cacheExpiration
// of zero uses DefaultCacheExpiration.
func NewBasicAuthenticator(policy *Policy, store UserStore, realm string, cacheExpiration time.Duration) *BasicAuthenticator {
	return &BasicAuthenticator{
		Policy: policy,
		Store:  store,
		Realm:  realm,
		cache:  newCredentialCache(cacheExpiration),
	}
}

// NeedsAuth delegates to Policy.
func (a *BasicAuthenticator) NeedsAuth(resource string) bool {
	return a.Policy.NeedsAuth(resource)
}

// Authenticate validates the request's Authorization header. On failure
// it writes the 401 response (with WWW-Authenticate) itself, so the
// caller only needs to branch on ok.
func (a *BasicAuthenticator) Authenticate(ctx context.Context, req *httpmsg.Request, w *httpwrite.Writer) (string, bool) {
	header := req.Header.Get("Authorization")
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		a.writeUnauthorized(ctx, w)
		return "", false
	}
	blob := header[len(prefix):]

	if user, ok := a.cache.lookup(blob); ok {
		if !a.Store.Exists(user) {
			a.cache.invalidate(blob)
		} else {
			return user, true
		}
	}

	raw, err := httpparse.Base64Decode(blob)
	if err != nil {
		a.writeUnauthorized(ctx, w)
		return "", false
	}
	user, pass, ok := splitUserPass(string(raw))
	if !ok || !a.Store.Verify(user, pass) {
		a.writeUnauthorized(ctx, w)
		return "", false
	}

	a.cache.store(blob, user)
	return user, true
}

func splitUserPass(s string) (user, pass string, ok bool) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}

func (a *BasicAuthenticator) writeUnauthorized(ctx context.Context, w *httpwrite.Writer) {
	resp := w.Response()
	resp.StatusCode = 401
	resp.StatusMessage = ""
	resp.Header.Set("WWW-Authenticate", `Basic realm="`+a.Realm+`"`)
	resp.Body = []byte("401 Unauthorized\n")
	_ = w.Send(ctx)
}
