package httpmsg

import (
	"strconv"
	"strings"
)

// SetCookie appends a Set-Cookie header to h for name/value, with an
// optional Max-Age and Path. maxAge == nil omits the attribute entirely;
// *maxAge == 0 marks the cookie for immediate deletion (this is the only
// "delete" semantics this port implements — a separate discard-on-close
// mode is not modeled, see DESIGN.md).
func SetCookie(h *Header, name, value string, maxAge *int, path string) {
	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteByte('=')
	sb.WriteByte('"')
	sb.WriteString(value)
	sb.WriteByte('"')
	sb.WriteString(`; Version="1"`)
	if path != "" {
		sb.WriteString(`; Path="`)
		sb.WriteString(path)
		sb.WriteByte('"')
	}
	if maxAge != nil {
		sb.WriteString(`; Max-Age="`)
		sb.WriteString(strconv.Itoa(*maxAge))
		sb.WriteByte('"')
	}
	h.Add("Set-Cookie", sb.String())
}

// ParseCookies decodes a Cookie header value ("a=1; b=2") into a Values
// multimap keyed on the raw (unquoted) cookie name.
func ParseCookies(header string) Values {
	out := make(Values)
	for _, pair := range strings.Split(header, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		i := strings.IndexByte(pair, '=')
		if i < 0 {
			continue
		}
		name := strings.TrimSpace(pair[:i])
		value := strings.Trim(strings.TrimSpace(pair[i+1:]), `"`)
		out.Add(name, value)
	}
	return out
}
