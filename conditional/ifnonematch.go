package conditional

import (
	"net/http"
	"strings"

	"github.com/jonwraymond/etagops/etag"
)

// IfNoneMatch is a parsed If-None-Match request header.
// The zero value matches nothing.
type IfNoneMatch struct {
	any  bool
	tags []*etag.Tag
}

// ParseIfNoneMatch parses a header value. "*" matches every tag; malformed
// list members are ignored.
func ParseIfNoneMatch(header string) IfNoneMatch {
	if strings.TrimSpace(header) == "*" {
		return IfNoneMatch{any: true}
	}
	return IfNoneMatch{tags: etag.ParseList(header)}
}

// FromRequest reads every If-None-Match header line of r.
func FromRequest(r *http.Request) IfNoneMatch {
	return ParseIfNoneMatch(strings.Join(r.Header.Values("If-None-Match"), ","))
}

// Present reports whether the header named any tag or "*".
func (m IfNoneMatch) Present() bool {
	return m.any || len(m.tags) > 0
}

// Matches reports whether tag weakly equals one the client holds.
func (m IfNoneMatch) Matches(tag *etag.Tag) bool {
	if tag == nil {
		return false
	}
	if m.any {
		return true
	}
	for _, t := range m.tags {
		if t.WeakEqual(tag) {
			return true
		}
	}
	return false
}
