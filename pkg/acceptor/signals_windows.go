//go:build windows

package acceptor

import (
	"context"

	"github.com/trillium-rs/trillium-sub000/pkg/handler"
)

// ServeWithSignals on Windows falls back to a plain Serve: os/signal's
// SIGTERM is not meaningful outside Unix-like platforms.
func (a *Acceptor) ServeWithSignals(ctx context.Context, h handler.Handler) error {
	return a.Serve(ctx, h)
}
