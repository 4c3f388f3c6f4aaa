// Package forwarded parses the Forwarded header (RFC 7239), falling back
// to the historical X-Forwarded-For/-Host/-Proto headers when Forwarded is
// absent, and normalizes either source to the standardized form.
package forwarded

import (
	"fmt"
	"strings"

	"github.com/trillium-rs/trillium-sub000/pkg/header"
)

// Forwarded holds the fields of one RFC 7239 Forwarded header, aggregated
// across every element of a (possibly multi-hop) proxy chain.
type Forwarded struct {
	By  string
	For []string
	Host string
	Proto string
}

// FromHeaders parses headers, preferring a standards-compliant Forwarded
// header and falling back to the historical X-Forwarded-* headers. It
// returns false if neither is present.
func FromHeaders(headers *header.Map) (Forwarded, bool, error) {
	if v, ok := headers.Get(header.NewName("Forwarded")); ok {
		f, err := Parse(v.String())
		if err != nil {
			return Forwarded{}, false, err
		}
		return f, true, nil
	}
	return fromXHeaders(headers)
}

func fromXHeaders(headers *header.Map) (Forwarded, bool, error) {
	var f Forwarded
	found := false

	if v, ok := headers.Get(header.NewName("X-Forwarded-For")); ok {
		found = true
		for _, part := range strings.Split(v.String(), ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				f.For = append(f.For, normalizeForValue(part))
			}
		}
	}
	if v, ok := headers.Get(header.NewName("X-Forwarded-Host")); ok {
		found = true
		f.Host = strings.TrimSpace(v.String())
	}
	if v, ok := headers.Get(header.NewName("X-Forwarded-Proto")); ok {
		found = true
		f.Proto = strings.TrimSpace(v.String())
	}
	return f, found, nil
}

// normalizeForValue wraps bare IPv6 literals in brackets, matching the
// Forwarded header's quoted-literal convention for node identifiers
// containing colons.
func normalizeForValue(v string) string {
	if strings.Contains(v, ":") && !strings.HasPrefix(v, "[") {
		return "[" + v + "]"
	}
	return v
}

// Parse parses the value of a Forwarded header into its constituent
// elements, per RFC 7239 §4. Hops are comma-separated and each hop's
// parameters semicolon-separated; every "for" parameter is appended to
// For in order.
func Parse(value string) (Forwarded, error) {
	var f Forwarded
	for _, hop := range strings.Split(value, ",") {
		for _, pair := range strings.Split(hop, ";") {
			pair = strings.TrimSpace(pair)
			if pair == "" {
				continue
			}
			kv := strings.SplitN(pair, "=", 2)
			if len(kv) != 2 {
				return Forwarded{}, fmt.Errorf("forwarded: malformed parameter %q", pair)
			}
			key := strings.ToLower(strings.TrimSpace(kv[0]))
			val := unquote(strings.TrimSpace(kv[1]))
			switch key {
			case "by":
				f.By = val
			case "for":
				f.For = append(f.For, val)
			case "host":
				f.Host = val
			case "proto":
				f.Proto = val
			}
		}
	}
	return f, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`)
	}
	return s
}

// String renders f back into the standardized Forwarded header form.
func (f Forwarded) String() string {
	var hops []string
	if len(f.For) == 0 {
		hops = append(hops, f.renderHop(""))
	}
	for _, forVal := range f.For {
		hops = append(hops, f.renderHop(forVal))
	}
	return strings.Join(hops, ", ")
}

func (f Forwarded) renderHop(forVal string) string {
	var parts []string
	if forVal != "" {
		parts = append(parts, "for="+maybeQuote(forVal))
	}
	if f.By != "" {
		parts = append(parts, "by="+maybeQuote(f.By))
	}
	if f.Host != "" {
		parts = append(parts, "host="+maybeQuote(f.Host))
	}
	if f.Proto != "" {
		parts = append(parts, "proto="+maybeQuote(f.Proto))
	}
	return strings.Join(parts, ";")
}

func maybeQuote(s string) string {
	if strings.ContainsAny(s, `:"`) {
		return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	}
	return s
}
