// Command demo runs a minimal trillium server: it responds "hello from
// trillium" to every request with a "public, max-age=60" Cache-Control
// header.
package main

import (
	"context"
	"log/slog"
	"time"

	trillium "github.com/trillium-rs/trillium-sub000"
	"github.com/trillium-rs/trillium-sub000/pkg/acceptor"
	"github.com/trillium-rs/trillium-sub000/pkg/cachingheaders"
	"github.com/trillium-rs/trillium-sub000/pkg/handler"
)

func main() {
	cfg := acceptor.DefaultConfig()

	cc := cachingheaders.New(
		cachingheaders.Directive{Kind: cachingheaders.Public},
		cachingheaders.Directive{Kind: cachingheaders.MaxAge, Duration: 60 * time.Second},
	)

	server := trillium.NewServer(cfg, cc, handler.String("hello from trillium"))

	slog.Info("demo server starting", "addr", cfg.Host, "port", cfg.Port)
	if err := server.Run(context.Background()); err != nil {
		slog.Error("server exited", "error", err)
	}
}
