// Package acceptor implements the transport-generic accept loop: listen
// (or inherit a listener fd), accept connections until told to stop, run
// each on its own goroutine, and drain in-flight connections on
// graceful shutdown.
package acceptor

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"

	"github.com/trillium-rs/trillium-sub000/pkg/handler"
	"github.com/trillium-rs/trillium-sub000/pkg/httpconfig"
	"github.com/trillium-rs/trillium-sub000/pkg/serverconn"
	"github.com/trillium-rs/trillium-sub000/pkg/stopper"
)

// Config controls where the acceptor listens and how it behaves.
type Config struct {
	// Host and Port are used when no listener and no inherited fd are
	// supplied. Empty Host binds all interfaces.
	Host string
	Port int

	// HTTPConfig is threaded through to every accepted connection's
	// serverconn.Map loop.
	HTTPConfig httpconfig.Config

	// Logger receives per-connection and lifecycle events. Defaults to
	// slog.Default() if nil.
	Logger *slog.Logger
}

// DefaultConfig reads HOST/PORT from the environment (falling back to
// 0.0.0.0:8080), matching the common convention for container-orchestrated
// deployments.
func DefaultConfig() Config {
	host := os.Getenv("HOST")
	if host == "" {
		host = "0.0.0.0"
	}
	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil {
			port = parsed
		}
	}
	return Config{
		Host:       host,
		Port:       port,
		HTTPConfig: httpconfig.Default(),
	}
}

// Acceptor runs the accept loop for a single listener.
type Acceptor struct {
	cfg     Config
	log     *slog.Logger
	stopper *stopper.Stopper
}

// New returns an Acceptor for cfg.
func New(cfg Config) *Acceptor {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Acceptor{cfg: cfg, log: log, stopper: stopper.New()}
}

// listener resolves the net.Listener to accept from: LISTEN_FD from the
// environment takes priority (socket-activation style inheritance), then
// falls back to binding Host:Port.
func (a *Acceptor) listener() (net.Listener, error) {
	if fdStr := os.Getenv("LISTEN_FD"); fdStr != "" {
		fd, err := strconv.Atoi(fdStr)
		if err != nil {
			return nil, fmt.Errorf("acceptor: invalid LISTEN_FD %q: %w", fdStr, err)
		}
		file := os.NewFile(uintptr(fd), "listen-fd")
		ln, err := net.FileListener(file)
		if err != nil {
			return nil, fmt.Errorf("acceptor: inheriting LISTEN_FD %d: %w", fd, err)
		}
		return ln, nil
	}
	addr := net.JoinHostPort(a.cfg.Host, strconv.Itoa(a.cfg.Port))
	return net.Listen("tcp", addr)
}

// Serve accepts connections on cfg's listener until ctx is canceled or
// Stop is called, running h against each one. It returns once the
// listener is closed; it does not wait for in-flight connections to
// drain — wait on Drained after Serve returns for that.
func (a *Acceptor) Serve(ctx context.Context, h handler.Handler) error {
	if err := h.Init(ctx); err != nil {
		return fmt.Errorf("acceptor: handler init: %w", err)
	}

	ln, err := a.listener()
	if err != nil {
		return err
	}
	defer ln.Close()

	go func() {
		select {
		case <-ctx.Done():
			a.stopper.Stop()
		case <-a.stopper.Stopped():
		}
		ln.Close()
	}()

	a.log.Info("acceptor listening", "addr", ln.Addr().String())

	for {
		conn, err := ln.Accept()
		if err != nil {
			if a.stopper.IsStopping() {
				return nil
			}
			return fmt.Errorf("acceptor: accept: %w", err)
		}

		token := a.stopper.Clone()
		go func() {
			defer token.Close()
			defer conn.Close()
			if err := serverconn.Map(ctx, conn, a.cfg.HTTPConfig, h, a.log); err != nil {
				a.log.Debug("connection ended", "error", err, "remote", conn.RemoteAddr())
			}
		}()
	}
}

// Stop signals the accept loop to stop accepting new connections.
func (a *Acceptor) Stop() {
	a.stopper.Stop()
}

// Drained returns a channel that closes once Stop has been called and
// every in-flight connection has finished.
func (a *Acceptor) Drained() <-chan struct{} {
	return a.stopper.Drained()
}
