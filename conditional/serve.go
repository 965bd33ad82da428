package conditional

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/jonwraymond/etagops/cache"
	"github.com/jonwraymond/etagops/observe"
	"github.com/jonwraymond/etagops/resilience"
)

// RetryAfter is the Retry-After value, in seconds, sent when file reads are
// saturated.
const RetryAfter = "1"

// FileHandler serves files through a FileCache. resolve maps a request to a
// path in the cache's file system; an empty result is answered with 404.
func FileHandler(files *cache.FileCache, resolve func(*http.Request) string, logger observe.Logger) http.Handler {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		p := resolve(r)
		if p == "" {
			http.NotFound(w, r)
			return
		}

		resp, err := FromFile(r.Context(), FromRequest(r), files, p, "", "")
		switch {
		case err == nil:
		case errors.Is(err, fs.ErrNotExist):
			http.NotFound(w, r)
			return
		case errors.Is(err, fs.ErrPermission):
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		case errors.Is(err, resilience.ErrBulkheadFull):
			w.Header().Set("Retry-After", RetryAfter)
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		default:
			logger.Error(r.Context(), "serve file failed",
				observe.Field{Key: "path", Value: p},
				observe.Field{Key: "error", Value: err},
			)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if err := resp.Write(w, r.Method); err != nil {
			logger.Warn(r.Context(), "client write failed",
				observe.Field{Key: "path", Value: p},
				observe.Field{Key: "error", Value: err},
			)
		}
	})
}
