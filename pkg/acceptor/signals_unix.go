//go:build !windows

package acceptor

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/trillium-rs/trillium-sub000/pkg/handler"
)

// ServeWithSignals runs Serve, additionally calling Stop when the process
// receives SIGINT or SIGTERM, so Ctrl-C and an orchestrator's shutdown
// signal trigger the same graceful drain as a programmatic Stop call.
func (a *Acceptor) ServeWithSignals(ctx context.Context, h handler.Handler) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case <-sigCh:
			a.log.Info("received shutdown signal")
			a.Stop()
		case <-ctx.Done():
		}
	}()

	return a.Serve(ctx, h)
}
