package httpmsg

import "strings"

// Request is an inbound HTTP message: method, resource path, and the
// lazily-parsed query/cookie/form multimaps layered on top of Message.
type Request struct {
	Message

	Method string

	// Resource is the path with any single trailing slash stripped
	// (except the root "/"), matching the dispatcher's canonical form.
	Resource string

	// OriginalResource preserves the exact request-target as received,
	// before trailing-slash normalization.
	OriginalResource string

	RawQuery string

	query    Values
	cookies  Values
	postForm Values
}

// Reset clears the request for pooled reuse.
func (r *Request) Reset() {
	r.Message.Reset()
	r.Method = ""
	r.Resource = ""
	r.OriginalResource = ""
	r.RawQuery = ""
	r.query = nil
	r.cookies = nil
	r.postForm = nil
}

// SetResource splits target into OriginalResource/Resource/RawQuery.
func (r *Request) SetResource(target string) {
	r.OriginalResource = target
	path := target
	if i := strings.IndexByte(target, '?'); i >= 0 {
		path = target[:i]
		r.RawQuery = target[i+1:]
	}
	r.Resource = normalizeResource(path)
}

// normalizeResource strips a single trailing slash, keeping "/" as-is,
// so "/a/" and "/a" address the same registered resource.
func normalizeResource(path string) string {
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		return path[:len(path)-1]
	}
	if path == "" {
		return "/"
	}
	return path
}

// Query returns the lazily-parsed query-string multimap.
func (r *Request) Query() Values {
	if r.query == nil {
		r.query = ParseQuery(r.RawQuery)
	}
	return r.query
}

// Cookies returns the lazily-parsed Cookie-header multimap.
func (r *Request) Cookies() Values {
	if r.cookies == nil {
		r.cookies = ParseCookies(r.Header.Get("Cookie"))
	}
	return r.cookies
}

// PostForm returns the lazily-parsed application/x-www-form-urlencoded
// body multimap. Returns an empty Values for any other content type.
func (r *Request) PostForm() Values {
	if r.postForm == nil {
		if r.ContentType() == "application/x-www-form-urlencoded" {
			r.postForm = ParseQuery(string(r.Body))
		} else {
			r.postForm = make(Values)
		}
	}
	return r.postForm
}

// IsGET, IsPOST, IsHEAD report the request method, case-sensitively per
// RFC 7230 (methods are token, and are conventionally upper-case).
func (r *Request) IsGET() bool  { return r.Method == "GET" }
func (r *Request) IsPOST() bool { return r.Method == "POST" }
func (r *Request) IsHEAD() bool { return r.Method == "HEAD" }

// ShouldCloseAfterResponse reports whether the connection should close
// once this request's response has been sent, per the Connection header
// and protocol version rules in CheckKeepAlive.
func (r *Request) ShouldCloseAfterResponse() bool {
	return !CheckKeepAlive(r.VersionMajor, r.VersionMinor, r.Header.Get("Connection"))
}
