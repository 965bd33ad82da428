package conditional

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/jonwraymond/etagops/cache"
	"github.com/jonwraymond/etagops/etag"
)

// UnknownLength marks a body whose size is not known up front.
const UnknownLength = -1

// Response is either a 304 for a tag the client already holds or a full
// body carrying the tag. A Response holding an open file must be written or
// closed.
type Response struct {
	tag         *etag.Tag
	notModified bool
	body        io.Reader
	fileName    string
	contentType string
	length      int64
}

func newResponse(inm IfNoneMatch, tag *etag.Tag, body io.Reader, name, ctype string, length int64) *Response {
	if inm.Matches(tag) {
		if c, ok := body.(io.Closer); ok {
			_ = c.Close()
		}
		return &Response{tag: tag, notModified: true, length: UnknownLength}
	}
	return &Response{
		tag:         tag,
		body:        body,
		fileName:    name,
		contentType: ctype,
		length:      length,
	}
}

// FromBytes fingerprints data and responds with it.
func FromBytes(inm IfNoneMatch, data []byte, name, ctype string) *Response {
	return newResponse(inm, etag.FromBytes(data), bytes.NewReader(data), name, ctype, int64(len(data)))
}

// FromKey responds with data, taking its tag from keys under key.
// The key must change whenever data does.
func FromKey(ctx context.Context, inm IfNoneMatch, keys *cache.KeyCache, key string, data []byte, name, ctype string) *Response {
	tag := keys.GetOrInsert(ctx, key, data)
	return newResponse(inm, tag, bytes.NewReader(data), name, ctype, int64(len(data)))
}

// FromReader responds with a stream whose tag the caller already knows.
// Pass UnknownLength when the size is not known. r is closed if it is an
// io.Closer and the client already holds tag.
func FromReader(inm IfNoneMatch, tag *etag.Tag, r io.Reader, name, ctype string, length int64) *Response {
	return newResponse(inm, tag, r, name, ctype, length)
}

// FromFile responds with the file at p, taking its tag from files.
// The file is only opened when the client's tag is stale. An empty name
// defaults to the base of p; an empty ctype is guessed from the extension.
func FromFile(ctx context.Context, inm IfNoneMatch, files *cache.FileCache, p, name, ctype string) (*Response, error) {
	tag, err := files.GetOrInsert(ctx, p)
	if err != nil {
		return nil, err
	}
	if inm.Matches(tag) {
		return &Response{tag: tag, notModified: true, length: UnknownLength}, nil
	}

	fsys := files.FileSystem()
	f, err := fsys.Open(p)
	if err != nil {
		return nil, &cache.ContentError{Op: "open", Path: p, Err: err}
	}

	length := int64(UnknownLength)
	if info, err := fsys.Stat(p); err == nil && info.Mode().IsRegular() {
		length = info.Size()
	}

	if name == "" {
		name = path.Base(strings.ReplaceAll(p, `\`, "/"))
	}
	if ctype == "" {
		ctype = guessContentType(p)
	}
	return &Response{tag: tag, body: f, fileName: name, contentType: ctype, length: length}, nil
}

// guessContentType maps the extension of p to a media type. Unknown
// extensions get application/octet-stream; no extension gets "".
func guessContentType(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return ""
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Tag returns the entity tag of the content.
func (r *Response) Tag() *etag.Tag { return r.tag }

// NotModified reports whether the client already holds the content.
func (r *Response) NotModified() bool { return r.notModified }

// Close releases an unwritten body.
func (r *Response) Close() error {
	if c, ok := r.body.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Write sends the response. The body is omitted for HEAD requests.
func (r *Response) Write(w http.ResponseWriter, method string) error {
	defer func() { _ = r.Close() }()

	h := w.Header()
	h.Set("ETag", r.tag.String())

	if r.NotModified() {
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	if r.fileName != "" {
		h.Set("Content-Disposition", "inline; filename*=UTF-8''"+encodeFilename(r.fileName))
	}
	if r.contentType != "" {
		h.Set("Content-Type", r.contentType)
	} else {
		// suppress net/http content sniffing
		h["Content-Type"] = nil
	}
	if r.length >= 0 {
		h.Set("Content-Length", strconv.FormatInt(r.length, 10))
	}
	w.WriteHeader(http.StatusOK)

	if method == http.MethodHead || r.body == nil {
		return nil
	}
	if _, err := io.Copy(w, r.body); err != nil {
		return fmt.Errorf("conditional: write body: %w", err)
	}
	return nil
}

// ServeHTTP writes the response for req.
func (r *Response) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	_ = r.Write(w, req.Method)
}

// encodeFilename percent-encodes name for an RFC 8187 ext-value, keeping
// only attr-char bytes literal.
func encodeFilename(name string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}
