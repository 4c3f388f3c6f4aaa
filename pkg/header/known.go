package header

import "strings"

// Known identifies one of the well-known HTTP header names by a compact
// integer discriminant, giving it a fast-equality/fast-hash path distinct
// from the opaque-string path used for unrecognized header names.
type Known int

// The well-known header set. Spellings follow the canonical form each
// header is emitted with on the wire.
const (
	unknownStart Known = iota
	Accept
	AcceptCharset
	AcceptEncoding
	AcceptLanguage
	AcceptRanges
	AccessControlAllowCredentials
	AccessControlAllowHeaders
	AccessControlAllowMethods
	AccessControlAllowOrigin
	AccessControlExposeHeaders
	AccessControlMaxAge
	AccessControlRequestHeaders
	AccessControlRequestMethod
	Age
	Allow
	AltSvc
	Authorization
	CacheControl
	Connection
	ContentDisposition
	ContentEncoding
	ContentLanguage
	ContentLength
	ContentLocation
	ContentRange
	ContentSecurityPolicy
	ContentType
	Cookie
	Date
	ETag
	Expect
	Expires
	Forwarded
	Host
	IfMatch
	IfModifiedSince
	IfNoneMatch
	IfRange
	IfUnmodifiedSince
	KeepAlive
	LastModified
	Location
	Origin
	Pragma
	ProxyAuthenticate
	ProxyAuthorization
	Range
	Referer
	ReferrerPolicy
	RetryAfter
	Server
	SetCookie
	StrictTransportSecurity
	TE
	Trailer
	TransferEncoding
	Upgrade
	UserAgent
	Vary
	Via
	WWWAuthenticate
	XContentTypeOptions
	XForwardedFor
	XForwardedHost
	XForwardedProto
	XFrameOptions
	XRequestID
	XXSSProtection

	knownCount
)

var knownSpellings = [knownCount]string{
	Accept:                         "Accept",
	AcceptCharset:                  "Accept-Charset",
	AcceptEncoding:                 "Accept-Encoding",
	AcceptLanguage:                 "Accept-Language",
	AcceptRanges:                   "Accept-Ranges",
	AccessControlAllowCredentials:  "Access-Control-Allow-Credentials",
	AccessControlAllowHeaders:      "Access-Control-Allow-Headers",
	AccessControlAllowMethods:      "Access-Control-Allow-Methods",
	AccessControlAllowOrigin:       "Access-Control-Allow-Origin",
	AccessControlExposeHeaders:     "Access-Control-Expose-Headers",
	AccessControlMaxAge:            "Access-Control-Max-Age",
	AccessControlRequestHeaders:    "Access-Control-Request-Headers",
	AccessControlRequestMethod:     "Access-Control-Request-Method",
	Age:                            "Age",
	Allow:                          "Allow",
	AltSvc:                         "Alt-Svc",
	Authorization:                  "Authorization",
	CacheControl:                   "Cache-Control",
	Connection:                     "Connection",
	ContentDisposition:             "Content-Disposition",
	ContentEncoding:                "Content-Encoding",
	ContentLanguage:                "Content-Language",
	ContentLength:                  "Content-Length",
	ContentLocation:                "Content-Location",
	ContentRange:                   "Content-Range",
	ContentSecurityPolicy:          "Content-Security-Policy",
	ContentType:                    "Content-Type",
	Cookie:                         "Cookie",
	Date:                           "Date",
	ETag:                           "ETag",
	Expect:                         "Expect",
	Expires:                        "Expires",
	Forwarded:                      "Forwarded",
	Host:                           "Host",
	IfMatch:                        "If-Match",
	IfModifiedSince:                "If-Modified-Since",
	IfNoneMatch:                    "If-None-Match",
	IfRange:                        "If-Range",
	IfUnmodifiedSince:              "If-Unmodified-Since",
	KeepAlive:                      "Keep-Alive",
	LastModified:                   "Last-Modified",
	Location:                       "Location",
	Origin:                         "Origin",
	Pragma:                         "Pragma",
	ProxyAuthenticate:              "Proxy-Authenticate",
	ProxyAuthorization:             "Proxy-Authorization",
	Range:                          "Range",
	Referer:                        "Referer",
	ReferrerPolicy:                 "Referrer-Policy",
	RetryAfter:                     "Retry-After",
	Server:                         "Server",
	SetCookie:                      "Set-Cookie",
	StrictTransportSecurity:        "Strict-Transport-Security",
	TE:                             "TE",
	Trailer:                        "Trailer",
	TransferEncoding:               "Transfer-Encoding",
	Upgrade:                        "Upgrade",
	UserAgent:                      "User-Agent",
	Vary:                           "Vary",
	Via:                            "Via",
	WWWAuthenticate:                "WWW-Authenticate",
	XContentTypeOptions:            "X-Content-Type-Options",
	XForwardedFor:                  "X-Forwarded-For",
	XForwardedHost:                 "X-Forwarded-Host",
	XForwardedProto:                "X-Forwarded-Proto",
	XFrameOptions:                  "X-Frame-Options",
	XRequestID:                     "X-Request-Id",
	XXSSProtection:                 "X-Xss-Protection",
}

var knownByLower map[string]Known

func init() {
	knownByLower = make(map[string]Known, knownCount)
	for k := Known(1); k < knownCount; k++ {
		knownByLower[strings.ToLower(knownSpellings[k])] = k
	}
}

// String returns the canonical wire spelling of a known header name.
func (k Known) String() string {
	if k <= unknownStart || k >= knownCount {
		return ""
	}
	return knownSpellings[k]
}

// lookupKnown returns the Known discriminant for name, ASCII-case-
// insensitively, and false if name is not one of the well-known headers.
func lookupKnown(name string) (Known, bool) {
	k, ok := knownByLower[strings.ToLower(name)]
	return k, ok
}
