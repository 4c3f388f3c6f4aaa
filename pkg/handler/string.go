package handler

import "context"

// ConnBody is implemented by Conn types that can have a string body set on
// them and be halted, letting a bare string act as a complete handler
// (commonly used for quick demos and tests).
type ConnBody interface {
	Conn
	SetStringBody(string)
}

// String is a Handler that sets its value as the connection's body and
// halts the chain, for Conn implementations that also satisfy ConnBody.
// Conns that do not implement ConnBody leave the connection untouched.
type String string

func (s String) Init(ctx context.Context) error { return nil }

func (s String) Run(ctx context.Context, conn Conn) (Conn, error) {
	if cb, ok := conn.(ConnBody); ok {
		cb.SetStringBody(string(s))
		cb.Halt()
	}
	return conn, nil
}

func (s String) BeforeSend(ctx context.Context, conn Conn) Conn { return conn }
func (s String) Upgrade(ctx context.Context, conn Conn)         {}
func (s String) Info() Info                                    { return Info{Name: "handler.String"} }
