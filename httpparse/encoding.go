package httpparse

import (
	"encoding/base64"
	"net/url"

	"github.com/yourusername/relay/httpmsg"
)

// ParseURLEncoded decodes an application/x-www-form-urlencoded byte slice
// into dst, adding to any values already present.
func ParseURLEncoded(dst httpmsg.Values, b []byte) {
	parsed := httpmsg.ParseQuery(string(b))
	for k, vs := range parsed {
		for _, v := range vs {
			dst.Add(k, v)
		}
	}
}

// URLEncode percent-encodes s for use in a query string.
func URLEncode(s string) string {
	return url.QueryEscape(s)
}

// URLDecode reverses URLEncode.
func URLDecode(s string) (string, error) {
	return url.QueryUnescape(s)
}

// Base64Encode encodes b using standard (RFC 4648) base64, as Basic auth
// credentials require.
func Base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64Decode reverses Base64Encode.
func Base64Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}
