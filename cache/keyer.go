package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidResource indicates an empty or multi-line resource name.
var ErrInvalidResource = errors.New("cache: resource name is invalid")

// Keyer derives KeyCache keys that change whenever a resource's version does.
//
// Contract:
// - Determinism: equal inputs produce equal keys, regardless of map iteration order.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key derives a key for one version of a resource.
	Key(resource string, version any) (string, error)
}

// DefaultKeyer hashes the version with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key returns etag:<resource>:<hash>, where hash is the first 16 hex digits
// of SHA-256 over the JSON encoding of version. Map keys are encoded in
// sorted order, so the key does not depend on map iteration.
func (k *DefaultKeyer) Key(resource string, version any) (string, error) {
	if strings.TrimSpace(resource) == "" || strings.ContainsAny(resource, "\n\r") {
		return "", ErrInvalidResource
	}

	canonical, err := json.Marshal(version)
	if err != nil {
		return "", fmt.Errorf("cache: failed to encode version of %s: %w", resource, err)
	}

	sum := sha256.Sum256(canonical)
	return "etag:" + resource + ":" + hex.EncodeToString(sum[:8]), nil
}

var _ Keyer = (*DefaultKeyer)(nil)
