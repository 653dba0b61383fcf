// Command shockwaveserver is a minimal sample driver for httpserver: it
// parses a handful of flags, wires a reactor scheduler, and serves a single
// hello-world route until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/relay/httpserver"
	"github.com/yourusername/relay/reactor"
)

func main() {
	addr := flag.String("addr", ":8080", "address to listen on")
	tlsCert := flag.String("tls-cert", "", "TLS certificate file (enables HTTPS if set with -tls-key)")
	tlsKey := flag.String("tls-key", "", "TLS key file (enables HTTPS if set with -tls-cert)")
	workers := flag.Int("workers", 8, "number of connection-handling worker goroutines")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "shockwaveserver: failed to build logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := httpserver.DefaultConfig()
	cfg.Addr = *addr
	cfg.Scheduler = reactor.New(reactor.WithWorkers(*workers))
	cfg.Logger = logger

	srv := httpserver.New(cfg)
	srv.Handle("/", func(ctx *httpserver.RequestContext) {
		resp := ctx.Writer.Response()
		resp.Header.Set("Content-Type", "text/plain; charset=utf-8")
		resp.Body = []byte("hello from shockwaveserver\n")
		_ = ctx.Writer.Send(ctx.Ctx)
	})

	go func() {
		var serveErr error
		if *tlsCert != "" && *tlsKey != "" {
			serveErr = srv.ListenAndServeTLS(*tlsCert, *tlsKey)
		} else {
			serveErr = srv.ListenAndServe()
		}
		if serveErr != nil {
			logger.Error("server stopped", zap.Error(serveErr))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx, true); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		os.Exit(1)
	}
}
