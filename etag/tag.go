package etag

import (
	"fmt"
	"strings"
)

// Tag is an entity tag. It is never mutated after construction and is
// shared by pointer once stored in a cache.
type Tag struct {
	// Weak marks semantic (not byte-for-byte) equivalence.
	Weak bool

	// Value is the opaque payload, without quotes.
	Value string
}

// NewWeak returns a weak tag with the given payload.
func NewWeak(value string) *Tag {
	return &Tag{Weak: true, Value: value}
}

// NewStrong returns a strong tag with the given payload.
func NewStrong(value string) *Tag {
	return &Tag{Value: value}
}

// WeakEqual reports whether both tags carry the same payload.
// The weak flag is ignored. A nil tag never matches.
func (t *Tag) WeakEqual(other *Tag) bool {
	if t == nil || other == nil {
		return false
	}
	return t.Value == other.Value
}

// StrongEqual reports whether both tags are strong and carry the same payload.
func (t *Tag) StrongEqual(other *Tag) bool {
	if t == nil || other == nil {
		return false
	}
	return !t.Weak && !other.Weak && t.Value == other.Value
}

// String renders the tag in header form: W/"value" or "value".
func (t *Tag) String() string {
	if t == nil {
		return ""
	}
	if t.Weak {
		return `W/"` + t.Value + `"`
	}
	return `"` + t.Value + `"`
}

// Parse parses a single entity tag in header form.
func Parse(s string) (*Tag, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}

	weak := false
	if strings.HasPrefix(s, "W/") {
		weak = true
		s = s[2:]
	}

	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}
	value := s[1 : len(s)-1]
	if !validTagChars(value) {
		return nil, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	return &Tag{Weak: weak, Value: value}, nil
}

// ParseList parses a comma separated list of entity tags, as found in
// If-None-Match and If-Match headers. Malformed members are skipped.
func ParseList(header string) []*Tag {
	var tags []*Tag
	for len(header) > 0 {
		header = strings.TrimLeft(header, " \t,")
		if header == "" {
			break
		}

		end := tagEnd(header)
		if tag, err := Parse(header[:end]); err == nil {
			tags = append(tags, tag)
		}
		header = header[end:]
	}
	return tags
}

// tagEnd returns the index just past the first tag in s, honoring quotes so
// commas inside a quoted payload do not split it.
func tagEnd(s string) int {
	i := 0
	if strings.HasPrefix(s, "W/") {
		i = 2
	}
	if i < len(s) && s[i] == '"' {
		if j := strings.IndexByte(s[i+1:], '"'); j >= 0 {
			return i + j + 2
		}
		return len(s)
	}
	if j := strings.IndexByte(s, ','); j >= 0 {
		return j
	}
	return len(s)
}

// validTagChars checks etagc per RFC 9110: %x21 / %x23-7E / obs-text.
func validTagChars(v string) bool {
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == 0x21 || (c >= 0x23 && c <= 0x7E) || c >= 0x80 {
			continue
		}
		return false
	}
	return true
}
