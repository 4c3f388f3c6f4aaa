// Package handler defines the composition model shared by server and
// client pipelines: a small interface with default no-op behavior, plus
// adapters so plain functions, strings, and slices of handlers compose
// the same way a single handler does.
package handler

import "context"

// Conn is the minimal connection surface a Handler operates on: a
// request/response state carrier plus a halt flag that short-circuits
// the remainder of a Run chain.
type Conn interface {
	// Halted reports whether a prior handler has already decided the
	// response is complete and the rest of Run should be skipped.
	Halted() bool
	// Halt marks the connection halted.
	Halt()
}

// Info describes a handler to the acceptor at startup, e.g. for logging.
// Handlers that have nothing to report can embed Base and inherit its
// empty Info.
type Info struct {
	Name string
}

// Handler is the unit of composition. All five methods have useful
// defaults (embed Base to get them for free and override only what you
// need).
type Handler interface {
	// Init is called once, before the acceptor starts serving
	// connections, so a handler can validate configuration or warm up
	// caches. Returning an error aborts startup.
	Init(ctx context.Context) error
	// Run processes one connection. It returns the (possibly halted)
	// connection passed in, or an error to abort the connection.
	Run(ctx context.Context, conn Conn) (Conn, error)
	// BeforeSend is called for every handler in a chain, in reverse
	// order, regardless of whether the chain halted, so each handler gets
	// a chance to inspect or adjust the final response before it is
	// written.
	BeforeSend(ctx context.Context, conn Conn) Conn
	// Upgrade is invoked when Run's connection has requested a protocol
	// upgrade (e.g. CONNECT or WebSocket); handlers that do not support
	// upgrades leave this as a no-op.
	Upgrade(ctx context.Context, conn Conn)
	// Info reports static metadata about the handler.
	Info() Info
}

// Base provides no-op defaults for all five Handler methods. Embed it so
// a handler type need only implement the methods it cares about.
type Base struct{}

func (Base) Init(ctx context.Context) error                        { return nil }
func (Base) Run(ctx context.Context, conn Conn) (Conn, error)       { return conn, nil }
func (Base) BeforeSend(ctx context.Context, conn Conn) Conn         { return conn }
func (Base) Upgrade(ctx context.Context, conn Conn)                 {}
func (Base) Info() Info                                            { return Info{} }

// Func adapts a plain Run function into a Handler, with its own no-op
// Init/BeforeSend/Upgrade and an Info named "handler.Func".
type Func func(ctx context.Context, conn Conn) (Conn, error)

func (f Func) Init(ctx context.Context) error                  { return nil }
func (f Func) Run(ctx context.Context, conn Conn) (Conn, error) { return f(ctx, conn) }
func (f Func) BeforeSend(ctx context.Context, conn Conn) Conn   { return conn }
func (f Func) Upgrade(ctx context.Context, conn Conn)           {}
func (f Func) Info() Info                                       { return Info{Name: "handler.Func"} }

// Handlers is a slice of Handler that itself implements Handler,
// realizing the tuple-of-handlers composition: Run executes left to
// right, stopping at the first halted connection or error; BeforeSend
// always runs every handler right to left regardless of halt state.
type Handlers []Handler

func (hs Handlers) Init(ctx context.Context) error {
	for _, h := range hs {
		if err := h.Init(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (hs Handlers) Run(ctx context.Context, conn Conn) (Conn, error) {
	for _, h := range hs {
		var err error
		conn, err = h.Run(ctx, conn)
		if err != nil {
			return conn, err
		}
		if conn.Halted() {
			break
		}
	}
	return conn, nil
}

func (hs Handlers) BeforeSend(ctx context.Context, conn Conn) Conn {
	for i := len(hs) - 1; i >= 0; i-- {
		conn = hs[i].BeforeSend(ctx, conn)
	}
	return conn
}

func (hs Handlers) Upgrade(ctx context.Context, conn Conn) {
	for _, h := range hs {
		h.Upgrade(ctx, conn)
	}
}

func (hs Handlers) Info() Info { return Info{Name: "handler.Handlers"} }
