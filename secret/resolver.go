package secret

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Resolver resolves secret references using registered providers.
//
// Values with the prefix "secretref:" are resolved via providers.
// Other values are returned after strict environment expansion.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver creates a resolver. A strict resolver rejects empty secrets.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{providers: make(map[string]Provider), strict: strict}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// DefaultResolver resolves env and file references strictly.
func DefaultResolver() *Resolver {
	return NewResolver(true, EnvProvider{}, FileProvider{})
}

// ResolveValue resolves environment variables and secret refs in value.
// An empty value resolves to "".
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}

	if name, ref, ok := ParseSecretRef(expanded); ok {
		return r.resolve(ctx, name, ref)
	}
	return r.resolveInline(ctx, expanded)
}

// ParseSecretRef parses a full secret reference of the form:
//
//	secretref:<provider>:<ref>
func ParseSecretRef(value string) (provider, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, "secretref:")
	if !found {
		return "", "", false
	}
	provider, ref, found = strings.Cut(rest, ":")
	if !found || provider == "" || ref == "" {
		return "", "", false
	}
	return provider, ref, true
}

func (r *Resolver) resolve(ctx context.Context, name, ref string) (string, error) {
	p, ok := r.providers[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
	v, err := p.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if r.strict && v == "" {
		return "", fmt.Errorf("%w: %s:%s", ErrEmptySecret, name, ref)
	}
	return v, nil
}

var inlineRefPattern = regexp.MustCompile(`secretref:([^:\s]+):(\S+)`)

func (r *Resolver) resolveInline(ctx context.Context, value string) (string, error) {
	var firstErr error
	out := inlineRefPattern.ReplaceAllStringFunc(value, func(m string) string {
		if firstErr != nil {
			return m
		}
		name, ref, _ := ParseSecretRef(m)
		v, err := r.resolve(ctx, name, ref)
		if err != nil {
			firstErr = err
			return m
		}
		return v
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}
