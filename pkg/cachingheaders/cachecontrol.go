// Package cachingheaders models the Cache-Control header as a directive
// list, and exposes it as a handler.Handler that sets the header on every
// response that passes through it.
package cachingheaders

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/trillium-rs/trillium-sub000/pkg/handler"
	"github.com/trillium-rs/trillium-sub000/pkg/header"
)

// DirectiveKind discriminates the Cache-Control directives.
type DirectiveKind int

const (
	Immutable DirectiveKind = iota
	MaxAge
	MaxFresh
	MaxStale
	MustRevalidate
	NoCache
	NoStore
	NoTransform
	OnlyIfCached
	Private
	ProxyRevalidate
	Public
	SMaxage
	StaleIfError
	StaleWhileRevalidate
	UnknownDirective
)

// Directive is one Cache-Control directive, optionally carrying a
// duration argument (MaxAge, SMaxage, ...) or an unrecognized token
// (UnknownDirective).
type Directive struct {
	Kind     DirectiveKind
	Duration time.Duration
	// HasDuration distinguishes MaxStale with no argument (stale
	// responses of any age are acceptable) from one with an explicit cap.
	HasDuration bool
	Unknown     string
}

func (d Directive) String() string {
	switch d.Kind {
	case Immutable:
		return "immutable"
	case MaxAge:
		return "max-age=" + strconv.FormatInt(int64(d.Duration/time.Second), 10)
	case MaxFresh:
		return "max-fresh=" + strconv.FormatInt(int64(d.Duration/time.Second), 10)
	case MaxStale:
		if !d.HasDuration {
			return "max-stale"
		}
		return "max-stale=" + strconv.FormatInt(int64(d.Duration/time.Second), 10)
	case MustRevalidate:
		return "must-revalidate"
	case NoCache:
		return "no-cache"
	case NoStore:
		return "no-store"
	case NoTransform:
		return "no-transform"
	case OnlyIfCached:
		return "only-if-cached"
	case Private:
		return "private"
	case ProxyRevalidate:
		return "proxy-revalidate"
	case Public:
		return "public"
	case SMaxage:
		return "s-maxage=" + strconv.FormatInt(int64(d.Duration/time.Second), 10)
	case StaleIfError:
		return "stale-if-error=" + strconv.FormatInt(int64(d.Duration/time.Second), 10)
	case StaleWhileRevalidate:
		return "stale-while-revalidate=" + strconv.FormatInt(int64(d.Duration/time.Second), 10)
	default:
		return d.Unknown
	}
}

// Header is an ordered list of Cache-Control directives, itself a
// handler.Handler that sets the Cache-Control response header.
type Header []Directive

// New builds a Header from directives, an alias kept for parity with the
// free function constructor the directive set is modeled on.
func New(directives ...Directive) Header { return Header(directives) }

func (h Header) String() string {
	parts := make([]string, len(h))
	for i, d := range h {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}

func (h Header) Init(ctx context.Context) error { return nil }

func (h Header) Run(ctx context.Context, conn handler.Conn) (handler.Conn, error) {
	if setter, ok := conn.(interface{ SetResponseHeader(string, string) }); ok {
		setter.SetResponseHeader("Cache-Control", h.String())
	}
	return conn, nil
}

func (h Header) BeforeSend(ctx context.Context, conn handler.Conn) handler.Conn { return conn }
func (h Header) Upgrade(ctx context.Context, conn handler.Conn)                 {}
func (h Header) Info() handler.Info                                            { return handler.Info{Name: "cachingheaders.Header"} }

// Parse parses a Cache-Control header value into a Header.
func Parse(value string) Header {
	var out Header
	for _, tok := range strings.Split(value, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		out = append(out, parseDirective(tok))
	}
	return out
}

func parseDirective(tok string) Directive {
	name, arg, hasArg := strings.Cut(tok, "=")
	name = strings.ToLower(strings.TrimSpace(name))
	arg = strings.Trim(strings.TrimSpace(arg), `"`)

	seconds := func() (time.Duration, bool) {
		n, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return 0, false
		}
		return time.Duration(n) * time.Second, true
	}

	switch name {
	case "immutable":
		return Directive{Kind: Immutable}
	case "max-age":
		d, _ := seconds()
		return Directive{Kind: MaxAge, Duration: d}
	case "max-fresh":
		d, _ := seconds()
		return Directive{Kind: MaxFresh, Duration: d}
	case "max-stale":
		if !hasArg {
			return Directive{Kind: MaxStale}
		}
		d, ok := seconds()
		return Directive{Kind: MaxStale, Duration: d, HasDuration: ok}
	case "must-revalidate":
		return Directive{Kind: MustRevalidate}
	case "no-cache":
		return Directive{Kind: NoCache}
	case "no-store":
		return Directive{Kind: NoStore}
	case "no-transform":
		return Directive{Kind: NoTransform}
	case "only-if-cached":
		return Directive{Kind: OnlyIfCached}
	case "private":
		return Directive{Kind: Private}
	case "proxy-revalidate":
		return Directive{Kind: ProxyRevalidate}
	case "public":
		return Directive{Kind: Public}
	case "s-maxage":
		d, _ := seconds()
		return Directive{Kind: SMaxage, Duration: d}
	case "stale-if-error":
		d, _ := seconds()
		return Directive{Kind: StaleIfError, Duration: d}
	case "stale-while-revalidate":
		d, _ := seconds()
		return Directive{Kind: StaleWhileRevalidate, Duration: d}
	default:
		return Directive{Kind: UnknownDirective, Unknown: tok}
	}
}

// FromHeaders parses the Cache-Control header out of headers, if present.
func FromHeaders(headers *header.Map) (Header, bool) {
	v, ok := headers.Get(header.NewName("Cache-Control"))
	if !ok {
		return nil, false
	}
	return Parse(v.String()), true
}

var _ handler.Handler = Header(nil)
