// Package httpconfig holds the tunable knobs shared by the server and
// client connection engines.
package httpconfig

import (
	"time"

	"github.com/trillium-rs/trillium-sub000/pkg/constants"
	"github.com/trillium-rs/trillium-sub000/pkg/header"
)

// Config bounds resource usage and controls protocol-level behavior for
// both serverconn and clientconn.
type Config struct {
	// ParseLimits bounds the size of a parsed request/response head.
	ParseLimits header.ParseLimits

	// MaxBodyLength caps a single message body; 0 means unbounded.
	MaxBodyLength int64

	// CopyLoopsPerYield is the number of body-copy iterations between
	// runtime.Gosched calls. serverconn's response body copy (io.Copy or
	// body.CopyChunked) does not read it and never yields explicitly.
	CopyLoopsPerYield int

	// HeadReadTimeout bounds how long the server waits for a request head
	// to arrive before closing the connection. Zero means no timeout.
	HeadReadTimeout time.Duration

	// IdleTimeout bounds how long a keep-alive connection may sit between
	// requests before the server closes it. Zero means HeadReadTimeout
	// applies to later requests as well.
	IdleTimeout time.Duration

	// ExpectContinueTimeout bounds how long the client waits for a 100
	// Continue interim response before sending the body anyway.
	ExpectContinueTimeout time.Duration

	// SwallowCloseErrors is a setting that no engine code reads:
	// serverconn.Map returns every response write error to its caller
	// whatever its value.
	SwallowCloseErrors bool
}

// Default returns the engine's default configuration.
func Default() Config {
	return Config{
		ParseLimits:           header.DefaultParseLimits(),
		MaxBodyLength:         10 * constants.DefaultBodyMemLimit,
		CopyLoopsPerYield:     16,
		HeadReadTimeout:       constants.DefaultReadTimeout,
		IdleTimeout:           constants.DefaultIdleTimeout,
		ExpectContinueTimeout: time.Second,
		SwallowCloseErrors:    true,
	}
}
