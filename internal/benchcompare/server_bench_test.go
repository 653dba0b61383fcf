// Package benchcompare benchmarks httpserver against net/http and fasthttp
// using the same handler shape, mirroring the teacher's
// benchmarks/competitors comparison suite but retargeted at this module's
// own server instead of a third implementation of its own.
package benchcompare

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/yourusername/relay/httpmux"
	"github.com/yourusername/relay/httpserver"
	"github.com/yourusername/relay/reactor"
)

func startRelayServer(b *testing.B) net.Conn {
	b.Helper()
	cfg := httpserver.DefaultConfig()
	cfg.Scheduler = reactor.New(reactor.WithWorkers(4))
	cfg.Table = httpmux.New()
	s := httpserver.New(cfg)
	s.Handle("/", func(ctx *httpserver.RequestContext) {
		ctx.Writer.Response().Body = []byte("OK")
		_ = ctx.Writer.Send(ctx.Ctx)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		b.Fatal(err)
	}
	go s.Serve(ln)
	b.Cleanup(func() { s.Close() })

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { conn.Close() })
	return conn
}

// BenchmarkComparisonSimpleGET compares this module's server against
// net/http and fasthttp for a trivial GET request, the same shape as the
// teacher's BenchmarkComparisonSimpleGET.
func BenchmarkComparisonSimpleGET(b *testing.B) {
	b.Run("relay", func(b *testing.B) {
		conn := startRelayServer(b)
		req := []byte("GET / HTTP/1.1\r\nHost: a\r\nConnection: keep-alive\r\n\r\n")
		buf := make([]byte, 256)

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if _, err := conn.Write(req); err != nil {
				b.Fatal(err)
			}
			if _, err := conn.Read(buf); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("net/http", func(b *testing.B) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})
		server := httptest.NewServer(handler)
		defer server.Close()

		client := &http.Client{Transport: &http.Transport{MaxIdleConnsPerHost: 100}}

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			resp, err := client.Get(server.URL)
			if err != nil {
				b.Fatal(err)
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	})

	b.Run("fasthttp", func(b *testing.B) {
		handler := func(ctx *fasthttp.RequestCtx) {
			ctx.SetStatusCode(fasthttp.StatusOK)
			ctx.WriteString("OK")
		}
		server := &fasthttp.Server{Handler: handler}
		ln := fasthttputil.NewInmemoryListener()
		defer ln.Close()
		go server.Serve(ln)

		client := &fasthttp.Client{
			Dial: func(addr string) (net.Conn, error) { return ln.Dial() },
		}

		var req fasthttp.Request
		var resp fasthttp.Response
		req.SetRequestURI("http://localhost/")

		b.ResetTimer()
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if err := client.Do(&req, &resp); err != nil {
				b.Fatal(err)
			}
			resp.Reset()
		}
	})
}
