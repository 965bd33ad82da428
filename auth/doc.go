// Package auth guards the cache admin endpoints.
//
// An Authenticator turns request headers into an Identity. API keys and
// HMAC-signed JWTs are supported, and Composite tries several in order.
// Require wraps an http.Handler so only identities holding a role reach it.
package auth
