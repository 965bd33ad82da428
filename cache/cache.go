package cache

import (
	"context"
	"errors"
)

// DefaultCapacity is the number of entries each cache holds when the caller
// does not choose a capacity.
const DefaultCapacity = 64

// Default cache names used in logs and metrics.
const (
	KeyCacheName  = "keys"
	FileCacheName = "files"
)

// ErrContentIO matches every error caused by failing to read content or its
// metadata.
var ErrContentIO = errors.New("cache: content unreadable")

// Cache is the administrative surface shared by KeyCache and FileCache.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Clear racing an insert is last-writer-wins.
type Cache interface {
	// Name identifies the cache in logs, metrics and health output.
	Name() string

	// Len reports the number of cached entries.
	Len() int

	// Cap reports the fixed capacity.
	Cap() int

	// Clear drops every entry.
	Clear(ctx context.Context)
}

// Stats is a point-in-time occupancy snapshot of a Cache.
type Stats struct {
	Name string `json:"name"`
	Len  int    `json:"len"`
	Cap  int    `json:"cap"`
}

// StatsOf snapshots c.
func StatsOf(c Cache) Stats {
	return Stats{Name: c.Name(), Len: c.Len(), Cap: c.Cap()}
}

// ContentError reports a failed read of a file or its metadata.
type ContentError struct {
	Op   string // stat, open or read
	Path string
	Err  error
}

func (e *ContentError) Error() string {
	return "cache: " + e.Op + " " + e.Path + ": " + e.Err.Error()
}

// Unwrap exposes both ErrContentIO and the underlying cause to errors.Is.
func (e *ContentError) Unwrap() []error {
	return []error{ErrContentIO, e.Err}
}

var (
	_ Cache = (*KeyCache)(nil)
	_ Cache = (*FileCache)(nil)
)
