package httpmsg

import "time"

// httpDateLayout is the RFC 1123 GMT layout HTTP date headers use, e.g.
// "Sun, 06 Nov 1994 08:49:37 GMT".
const httpDateLayout = "Mon, 02 Jan 2006 15:04:05 GMT"

// FormatHTTPDate renders t for use in Date/Last-Modified/Expires headers.
func FormatHTTPDate(t time.Time) string {
	return t.UTC().Format(httpDateLayout)
}

// ParseHTTPDate parses an HTTP date header value, e.g. from
// If-Modified-Since.
func ParseHTTPDate(s string) (time.Time, error) {
	return time.Parse(httpDateLayout, s)
}
