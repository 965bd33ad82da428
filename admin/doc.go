// Package admin exposes cache administration and health probes over HTTP.
//
// The router is built on chi. Read-only endpoints are always open:
//
//	GET  /healthz              liveness
//	GET  /readyz               readiness (503 when any check is unhealthy)
//	GET  /health               detailed JSON health report
//	GET  /caches               occupancy of every cache
//	GET  /caches/{name}        occupancy of one cache
//
// Mutating endpoints answer 204 and, when an Authenticator is configured,
// require an identity holding auth.RoleCacheAdmin:
//
//	POST /caches/clear         clear every cache
//	POST /caches/{name}/clear  clear one cache
package admin
