// Package httpserver wires reactor, httpconn, httpread, httpwrite,
// httpmux, and httpauth into an embeddable HTTP/1.1 server: accept loop,
// per-connection serve loop, resource dispatch, graceful shutdown.
package httpserver

import (
	"crypto/tls"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/relay/httpauth"
	"github.com/yourusername/relay/httpmux"
	"github.com/yourusername/relay/httpread"
	"github.com/yourusername/relay/internal/socket"
	"github.com/yourusername/relay/reactor"
)

// Handler processes one matched request.
type Handler func(ctx *RequestContext)

// Config configures a Server.
type Config struct {
	// Addr is the TCP address to listen on, e.g. ":8080".
	Addr string

	// TLSConfig, if set, makes ListenAndServe equivalent to
	// ListenAndServeTLS using this configuration.
	TLSConfig *tls.Config

	// Scheduler is the worker pool connections are served on. A nil
	// value gets a freshly constructed default scheduler.
	Scheduler *reactor.Scheduler

	// Table is the resource dispatch table. A nil value gets a fresh
	// empty table — register routes via Server.Handle before Serve.
	Table *httpmux.Table

	// Authenticator, if set, is consulted before dispatch for every
	// request.
	Authenticator httpauth.Authenticator

	// ReadConfig controls per-request idle-read timeout and buffer size.
	ReadConfig httpread.Config

	// MaxKeepAliveRequests bounds requests per connection; 0 means
	// unlimited.
	MaxKeepAliveRequests int

	// Logger receives structured server/connection/panic logs. A nil
	// value is replaced with a no-op logger.
	Logger *zap.Logger

	// AfterStopping, if set, runs once Shutdown has finished draining
	// connections.
	AfterStopping func()

	// SocketConfig tunes accepted connections and the listener (TCP_NODELAY,
	// buffer sizes, keepalive, ...). A nil value applies socket.DefaultConfig.
	SocketConfig *socket.Config
}

// DefaultConfig mirrors the teacher's DefaultConfig defaults, adapted to
// this package's Config shape.
func DefaultConfig() Config {
	return Config{
		Addr:                 ":8080",
		ReadConfig:           httpread.DefaultConfig(),
		MaxKeepAliveRequests: 0,
		Logger:               zap.NewNop(),
	}
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.Scheduler == nil {
		c.Scheduler = reactor.New()
	}
	if c.Table == nil {
		c.Table = httpmux.New()
	}
	if c.ReadConfig.ReadBufferSize == 0 {
		c.ReadConfig = httpread.DefaultConfig()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if c.SocketConfig == nil {
		c.SocketConfig = socket.DefaultConfig()
	}
}

// idleKeepAliveTimeout is not applied by any code path; a keep-alive
// connection is bounded only by the per-read idle timeout in ReadConfig.
const idleKeepAliveTimeout = 120 * time.Second
