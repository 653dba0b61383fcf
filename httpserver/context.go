package httpserver

import (
	"context"

	"github.com/yourusername/relay/httpconn"
	"github.com/yourusername/relay/httpmsg"
	"github.com/yourusername/relay/httpwrite"
)

// RequestContext bundles everything a Handler needs for one request.
type RequestContext struct {
	Ctx      context.Context
	Request  *httpmsg.Request
	Writer   *httpwrite.Writer
	Conn     *httpconn.Conn
	User     string // set when Authenticator.Authenticate succeeded
}
