package cache

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/etagops/etag"
	"github.com/jonwraymond/etagops/observe"
	"github.com/jonwraymond/etagops/resilience"
)

type fileEntry struct {
	tag     *etag.Tag
	modTime time.Time // zero when none was available
}

// fresh reports whether the entry still describes a file last modified at
// modTime. Entries without a modification time are never fresh.
func (e fileEntry) fresh(modTime time.Time) bool {
	return !e.modTime.IsZero() && !modTime.IsZero() && e.modTime.Equal(modTime)
}

// FileCache maps file paths to entity tags, revalidated by modification time.
type FileCache struct {
	name      string
	entries   *LRU[string, fileEntry]
	fs        FileSystem
	logger    observe.Logger
	inst      observe.CacheInstrumentation
	readLimit *resilience.Bulkhead
	group     *singleflight.Group // nil unless coalescing
}

// NewFileCache creates a FileCache holding at most capacity tags.
func NewFileCache(capacity int, opts ...Option) *FileCache {
	o := newOptions(FileCacheName, opts)
	c := &FileCache{
		name:      o.name,
		entries:   NewLRU[string, fileEntry](capacity),
		fs:        o.fs,
		logger:    o.logger,
		inst:      o.inst,
		readLimit: o.readLimit,
	}
	if o.coalesce {
		c.group = new(singleflight.Group)
	}
	return c
}

// GetOrInsert returns the tag for the file at path.
//
// A cached tag is returned without opening the file when the file's
// modification time equals the one recorded with it. Otherwise the content is
// read, hashed and cached. For an uncached path a failed stat is returned as a
// *ContentError; for a cached path it is logged and the content is reread.
// Errors are never cached.
func (c *FileCache) GetOrInsert(ctx context.Context, path string) (*etag.Tag, error) {
	entry, cached := c.entries.Get(path)
	info, err := c.fs.Stat(path)

	if !cached {
		if err != nil {
			return nil, &ContentError{Op: "stat", Path: path, Err: err}
		}
		c.inst.RecordLookup(ctx, c.name, observe.LookupMiss)
		return c.fill(ctx, path, info.ModTime())
	}

	var modTime time.Time
	if err != nil {
		c.logger.Debug(ctx, "stat failed for cached path, rereading",
			observe.Field{Key: "path", Value: path},
			observe.Field{Key: "error", Value: err},
		)
	} else {
		modTime = info.ModTime()
		if entry.fresh(modTime) {
			c.inst.RecordLookup(ctx, c.name, observe.LookupHit)
			return entry.tag, nil
		}
	}

	c.inst.RecordLookup(ctx, c.name, observe.LookupStale)
	return c.fill(ctx, path, modTime)
}

func (c *FileCache) fill(ctx context.Context, path string, modTime time.Time) (*etag.Tag, error) {
	if c.group == nil {
		return c.load(ctx, path, modTime)
	}
	// Callers stat'd at different instants may disagree on modTime, so it
	// is part of the flight key. The shared read outlives any one caller;
	// each caller only stops waiting when its own ctx ends.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(path+"\x00"+modTime.String(), func() (any, error) {
		return c.load(shared, path, modTime)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*etag.Tag), nil
	}
}

func (c *FileCache) load(ctx context.Context, path string, modTime time.Time) (*etag.Tag, error) {
	if c.readLimit != nil {
		if err := c.readLimit.Acquire(ctx); err != nil {
			return nil, fmt.Errorf("cache: read slot for %s: %w", path, err)
		}
		defer c.readLimit.Release()
	}

	tag, err := c.read(ctx, path)
	if err != nil {
		c.logger.Warn(ctx, "fingerprint failed",
			observe.Field{Key: "path", Value: path},
			observe.Field{Key: "error", Value: err},
		)
		return nil, err
	}

	if c.entries.Add(path, fileEntry{tag: tag, modTime: modTime}) {
		c.inst.RecordEviction(ctx, c.name)
	}
	return tag, nil
}

func (c *FileCache) read(ctx context.Context, path string) (tag *etag.Tag, err error) {
	ctx, done := c.inst.StartFingerprint(ctx, c.name, path)
	var n int64
	defer func() { done(n, err) }()

	f, err := c.fs.Open(path)
	if err != nil {
		return nil, &ContentError{Op: "open", Path: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	tag, n, err = etag.ComputeCounted(ctx, etag.ReaderSource(f))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ContentError{Op: "read", Path: path, Err: err}
	}
	return tag, nil
}

// Contains reports whether path is cached, fresh or not.
// A hit refreshes its recency.
func (c *FileCache) Contains(path string) bool {
	return c.entries.Contains(path)
}

// Clear drops every cached tag.
func (c *FileCache) Clear(ctx context.Context) {
	n := c.entries.Purge()
	c.inst.RecordClear(ctx, c.name)
	c.logger.Info(ctx, "cache cleared", observe.Field{Key: "removed", Value: n})
}

func (c *FileCache) Name() string { return c.name }
func (c *FileCache) Len() int     { return c.entries.Len() }
func (c *FileCache) Cap() int     { return c.entries.Cap() }

// FileSystem returns where the cache reads content from, so callers can
// serve the same bytes it fingerprinted.
func (c *FileCache) FileSystem() FileSystem { return c.fs }
