package auth

import (
	"net/http"
)

// Require returns middleware that admits only requests authenticated by
// authn whose identity holds role. Rejected credentials get 401, a missing
// role gets 403, and internal authenticator failures get 500.
func Require(authn Authenticator, role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := authn.Authenticate(r.Context(), r.Header)
			switch {
			case err == nil && id.IsExpired():
				unauthorized(w)
				return
			case err == nil:
			case IsRejection(err):
				unauthorized(w)
				return
			default:
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if !id.HasRole(role) {
				http.Error(w, ErrForbidden.Error(), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="etagops"`)
	http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
}
