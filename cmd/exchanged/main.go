// Command exchanged runs the continuum-exchange matching engine server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"continuum-exchange/engine"
	"continuum-exchange/market"
	"continuum-exchange/session"
)

const inboundBuffer = 1024

// seedInstruments bootstraps the symbols this server trades. The spec
// leaves instrument provisioning out of scope; a small fixed seed list
// keeps the binary runnable standalone.
var seedInstruments = []struct{ symbol, name string }{
	{"V", "Visa Inc."},
	{"AAPL", "Apple Inc."},
	{"MSFT", "Microsoft Corp."},
}

// validAddr reports whether addr is non-empty once surrounding
// whitespace is stripped. flag happily accepts `-p "   "` as a value;
// net.Listen would only reject it later with a generic bind error, so
// this is checked explicitly at startup instead.
func validAddr(addr string) bool {
	return strings.TrimSpace(addr) != ""
}

func main() {
	addr := flag.String("p", "127.0.0.1:8080", "listen address (host:port)")
	flag.Parse()

	if !validAddr(*addr) {
		fmt.Fprintln(os.Stderr, "exchanged: -p requires a non-empty host:port address")
		flag.Usage()
		os.Exit(2)
	}

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	m := market.New()
	for _, s := range seedInstruments {
		m.Register(s.symbol, s.name)
	}

	eng := engine.New(m, inboundBuffer, log.Named("engine"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		eng.Run(ctx)
	}()

	listener, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatal("failed to bind listener", zap.String("addr", *addr), zap.Error(err))
	}
	log.Info("listening", zap.String("addr", *addr))

	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	var sessions sync.WaitGroup
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				log.Info("listener closed, shutting down")
				sessions.Wait()
				wg.Wait()
				return
			default:
				log.Error("accept error", zap.Error(err))
				continue
			}
		}

		sessions.Add(1)
		go func() {
			defer sessions.Done()
			s := session.New(conn, eng.Inbound, log.Named("session"))
			s.Serve()
		}()
	}
}
