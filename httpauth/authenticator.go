// Package httpauth implements RFC 7617 HTTP Basic authentication and the
// restrict/permit resource-set policy that decides which requests need
// it.
package httpauth

import (
	"context"

	"github.com/yourusername/relay/httpmsg"
	"github.com/yourusername/relay/httpmux"
	"github.com/yourusername/relay/httpwrite"
)

// Authenticator decides whether a resource requires authentication and
// performs it, writing a 401 itself on failure so the caller only needs
// to check the returned ok.
type Authenticator interface {
	NeedsAuth(resource string) bool
	Authenticate(ctx context.Context, req *httpmsg.Request, w *httpwrite.Writer) (user string, ok bool)
}

// Policy implements the restrict/permit resource-set rule shared by any
// Authenticator. Restrict and Permit entries share a single table so the
// longest registered prefix always wins regardless of which call
// registered it — e.g. Restrict("/admin") + Permit("/admin/health") lets
// the more specific permit entry override the broader restriction.
type Policy struct {
	table *httpmux.Table
}

// NewPolicy constructs an empty Policy: nothing restricted by default.
func NewPolicy() *Policy {
	return &Policy{table: httpmux.New()}
}

// Restrict marks prefix as requiring authentication.
func (p *Policy) Restrict(prefix string) { p.table.Register(prefix, true) }

// Permit exempts prefix from authentication, even under a restricted
// ancestor, provided it is the longest matching prefix for a given
// resource.
func (p *Policy) Permit(prefix string) { p.table.Register(prefix, false) }

// NeedsAuth reports whether resource requires authentication, per the
// longest matching Restrict/Permit entry. A resource with no matching
// entry at all does not require auth.
func (p *Policy) NeedsAuth(resource string) bool {
	h, _, ok := p.table.Lookup(resource)
	if !ok {
		return false
	}
	restricted, _ := h.(bool)
	return restricted
}
