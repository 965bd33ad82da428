// Package secret resolves credentials referenced from configuration.
//
// A configured value is first expanded strictly against the environment
// (see ExpandEnvStrict), then any secret reference in it is resolved by the
// named Provider:
//
//	secretref:env:ADMIN_KEY          value of $ADMIN_KEY
//	secretref:file:/run/secrets/key  trimmed content of the file
//	Bearer secretref:env:TOKEN       inline references are replaced in place
package secret
