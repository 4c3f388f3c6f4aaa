package proto

import protoerrors "github.com/trillium-rs/trillium-sub000/pkg/errors"

// Version is the wire HTTP version, restricted to the two this engine
// speaks.
type Version int

const (
	HTTP10 Version = iota
	HTTP11
)

// String returns the wire form, e.g. "HTTP/1.1".
func (v Version) String() string {
	switch v {
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	default:
		return "HTTP/1.1"
	}
}

// ParseVersion parses the version token from a request/status line.
func ParseVersion(s string) (Version, error) {
	switch s {
	case "HTTP/1.0":
		return HTTP10, nil
	case "HTTP/1.1":
		return HTTP11, nil
	default:
		return 0, protoerrors.NewUnsupportedVersionError(s)
	}
}

// DefaultKeepAlive reports whether a connection at this version defaults
// to persistent if the Connection header is silent (RFC 9112 §9.3).
func (v Version) DefaultKeepAlive() bool { return v == HTTP11 }
