package httpserver

import (
	"context"
	"crypto/tls"
	"errors"
	"net"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/yourusername/relay/httpconn"
	"github.com/yourusername/relay/httpmsg"
	"github.com/yourusername/relay/httpread"
	"github.com/yourusername/relay/httpwrite"
	"github.com/yourusername/relay/internal/socket"
	"github.com/yourusername/relay/internal/tlsconfig"
)

// Server accepts connections, reads requests off them, dispatches by
// longest-registered resource prefix, and writes responses, reusing
// keep-alive and pipelined connections per spec.
type Server struct {
	cfg   Config
	stats *Stats

	listener net.Listener

	mu       sync.Mutex
	shutdown atomic.Bool
	conns    map[*httpconn.Conn]struct{}
}

// New constructs a Server from cfg, applying defaults for any zero
// fields.
func New(cfg Config) *Server {
	cfg.applyDefaults()
	return &Server{
		cfg:   cfg,
		stats: NewStats(),
		conns: make(map[*httpconn.Conn]struct{}),
	}
}

// Handle registers a handler for the longest-prefix resource match.
func (s *Server) Handle(prefix string, h Handler) {
	s.cfg.Table.Register(prefix, h)
}

// Stats returns the server's live statistics.
func (s *Server) Stats() *Stats { return s.stats }

// ListenAndServe listens on cfg.Addr and serves requests, using TLS if
// cfg.TLSConfig is set.
func (s *Server) ListenAndServe() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	if s.cfg.TLSConfig != nil {
		ln = tls.NewListener(ln, s.cfg.TLSConfig)
	}
	return s.Serve(ln)
}

// ListenAndServeTLS is a convenience wrapper that loads certFile/keyFile
// with tlsconfig's secure defaults (TLS 1.2+, forward-secret ciphers,
// ALPN http/1.1) and serves with it.
func (s *Server) ListenAndServeTLS(certFile, keyFile string) error {
	cfg, err := tlsconfig.New(certFile, keyFile).Build()
	if err != nil {
		return err
	}
	s.cfg.TLSConfig = cfg
	return s.ListenAndServe()
}

// Serve accepts connections from ln until Shutdown/Close, scheduling
// each onto the configured reactor.Scheduler.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	if err := socket.ApplyListener(ln, s.cfg.SocketConfig); err != nil {
		s.cfg.Logger.Warn("httpserver: listener socket tuning failed", zap.Error(err))
	}

	if err := s.cfg.Scheduler.Start(); err != nil {
		return err
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.shutdown.Load() {
				return nil
			}
			return err
		}
		if err := socket.Apply(conn, s.cfg.SocketConfig); err != nil {
			s.cfg.Logger.Debug("httpserver: connection socket tuning failed", zap.Error(err))
		}
		s.stats.TotalConnections.Add(1)
		s.stats.ActiveConnections.Add(1)

		hc := httpconn.New(conn)
		hc.SetFinishHandler(func() {
			s.cfg.Logger.Debug("httpserver: exchange finished",
				zap.Int("requestCount", hc.RequestCount()),
				zap.String("lifecycle", hc.Lifecycle().String()))
		})
		s.trackConn(hc)
		s.cfg.Scheduler.AddActiveUser()

		s.cfg.Scheduler.Submit(func(ctx context.Context) {
			defer s.cfg.Scheduler.RemoveActiveUser()
			defer s.untrackConn(hc)
			defer s.stats.ActiveConnections.Add(-1)
			s.handleConnection(ctx, hc)
		})
	}
}

func (s *Server) trackConn(c *httpconn.Conn) {
	s.mu.Lock()
	s.conns[c] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrackConn(c *httpconn.Conn) {
	s.mu.Lock()
	delete(s.conns, c)
	s.mu.Unlock()
	c.Close()
}

// handleConnection serves requests on hc until it should close, per
// spec's per-connection state machine: read -> dispatch -> handle ->
// write -> finish reschedules or drops.
func (s *Server) handleConnection(ctx context.Context, hc *httpconn.Conn) {
	for {
		if s.cfg.MaxKeepAliveRequests > 0 && hc.RequestCount() >= s.cfg.MaxKeepAliveRequests {
			return
		}

		hc.ResetFinish()
		res, err := httpread.Read(ctx, hc, s.cfg.ReadConfig, nil)
		if err != nil {
			if errors.Is(err, httpread.ErrIdleTimeout) {
				return
			}
			return
		}
		hc.IncRequests()
		s.stats.TotalRequests.Add(1)

		keepAlive := res.Lifecycle != httpconn.LifecycleClose
		hc.SetLifecycle(res.Lifecycle)

		s.serveOne(ctx, hc, res.Request, keepAlive)

		switch hc.Lifecycle() {
		case httpconn.LifecycleClose:
			return
		case httpconn.LifecyclePipelined, httpconn.LifecycleKeepAlive:
			continue
		}
	}
}

func (s *Server) serveOne(ctx context.Context, hc *httpconn.Conn, req *httpmsg.Request, keepAlive bool) {
	resp := &httpmsg.Response{StatusCode: 200, RequestMethod: req.Method}
	resp.VersionMajor, resp.VersionMinor = req.VersionMajor, req.VersionMinor
	w := httpwrite.New(resp, hc, keepAlive)

	user := ""
	if s.cfg.Authenticator != nil && s.cfg.Authenticator.NeedsAuth(req.Resource) {
		u, ok := s.cfg.Authenticator.Authenticate(ctx, req, w)
		if !ok {
			return
		}
		user = u
	}

	handlerVal, _, ok := s.cfg.Table.Lookup(req.Resource)
	if !ok {
		s.writeErrorPage(ctx, w, 404)
		return
	}
	handler, ok := handlerVal.(Handler)
	if !ok {
		s.writeErrorPage(ctx, w, 500)
		return
	}

	s.invokeHandler(ctx, handler, hc, req, w, user)
}

// invokeHandler calls handler with panic recovery. A recovered panic
// results in a 500 and the connection is forced closed; a fatal runtime
// error (stack overflow, out-of-memory) is not recoverable by Go's
// runtime regardless and still crashes the process, matching the same
// "allocation failure propagates fatally" intent without needing special
// handling here.
func (s *Server) invokeHandler(ctx context.Context, handler Handler, hc *httpconn.Conn, req *httpmsg.Request, w *httpwrite.Writer, user string) {
	defer func() {
		if r := recover(); r != nil {
			s.cfg.Logger.Error("httpserver: recovered panic in handler",
				zap.Any("panic", r), zap.String("resource", req.Resource))
			s.stats.RequestErrors.Add(1)
			hc.SetLifecycle(httpconn.LifecycleClose)
			s.writeErrorPage(ctx, httpwrite.New(w.Response(), hc, false), 500)
		}
	}()
	handler(&RequestContext{Ctx: ctx, Request: req, Writer: w, Conn: hc, User: user})
}

func (s *Server) writeErrorPage(ctx context.Context, w *httpwrite.Writer, code int) {
	resp := w.Response()
	resp.StatusCode = code
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	resp.Body = []byte(errorPage(code))
	_ = w.Send(ctx)
}

// Shutdown stops accepting new connections and, if waitUntilFinished,
// waits (bounded by ctx) for every in-flight connection to finish before
// returning — spec's graceful-stop semantics: in-flight handlers survive
// a graceful stop; only new accepts are refused immediately.
func (s *Server) Shutdown(ctx context.Context, waitUntilFinished bool) error {
	s.shutdown.Store(true)
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln != nil {
		_ = ln.Close()
	}

	var err error
	if waitUntilFinished {
		err = s.cfg.Scheduler.Stop(ctx)
	}
	if s.cfg.AfterStopping != nil {
		s.cfg.AfterStopping()
	}
	return err
}

// Close immediately closes the listener and every tracked connection,
// without waiting for in-flight handlers.
func (s *Server) Close() error {
	s.shutdown.Store(true)
	s.mu.Lock()
	ln := s.listener
	conns := make([]*httpconn.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	for _, c := range conns {
		_ = c.Close()
	}
	return nil
}
