// Package conditional answers conditional GET requests with entity tags.
//
// A handler parses the request's If-None-Match header, builds a Response
// from the content it would send, and lets the Response decide between
// 304 Not Modified and a full 200 with the body:
//
//	inm := conditional.FromRequest(r)
//	resp, err := conditional.FromFile(r.Context(), inm, files, path, "", "")
//	if err != nil {
//	    http.Error(w, "not found", http.StatusNotFound)
//	    return
//	}
//	resp.ServeHTTP(w, r)
//
// Tag comparison is weak: only the payloads are compared.
package conditional
