package header

import "strings"

// Name is a header name: either one of the well-known names listed in
// known.go (about seventy; a fast equality/hash path) or an opaque ASCII
// string. Any other header name, however common, takes the string path. Equality is always
// ASCII-case-insensitive.
type Name struct {
	known   Known
	unknown string
	isKnown bool
}

// NewName builds a Name from a raw string, resolving it against the
// well-known table if possible.
func NewName(s string) Name {
	if k, ok := lookupKnown(s); ok {
		return Name{known: k, isKnown: true}
	}
	return Name{unknown: s}
}

// FromKnown builds a Name directly from a Known discriminant.
func FromKnown(k Known) Name {
	return Name{known: k, isKnown: true}
}

// String returns the canonical or original spelling of the name.
func (n Name) String() string {
	if n.isKnown {
		return n.known.String()
	}
	return n.unknown
}

// IsKnown reports whether n resolved to a well-known header.
func (n Name) IsKnown() bool { return n.isKnown }

// AsKnown returns the well-known discriminant and true if n IsKnown.
func (n Name) AsKnown() (Known, bool) { return n.known, n.isKnown }

// Equal compares two names ASCII-case-insensitively.
func (n Name) Equal(other Name) bool {
	if n.isKnown && other.isKnown {
		return n.known == other.known
	}
	if n.isKnown != other.isKnown {
		return false
	}
	return strings.EqualFold(n.unknown, other.unknown)
}

// EqualString compares n against a raw string ASCII-case-insensitively.
func (n Name) EqualString(s string) bool {
	return n.Equal(NewName(s))
}

// lowerKey returns the map key used for the unknown-name partition:
// lower-cased bytes of the name.
func (n Name) lowerKey() string {
	if n.isKnown {
		return ""
	}
	return strings.ToLower(n.unknown)
}

// Valid reports whether the name is pure ASCII with no whitespace or HTTP
// token separators, per RFC 9110 §5.1.
func Valid(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x80 {
			return false
		}
		if !isTokenChar(c) {
			return false
		}
	}
	return true
}

// isTokenChar reports whether c is a valid HTTP token character (RFC 9110
// §5.6.2).
func isTokenChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
