package cache

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/etagops/etag"
	"github.com/jonwraymond/etagops/observe"
)

// KeyCache maps caller-chosen keys to entity tags.
//
// The key is trusted to identify one version of the content: a cached key is
// answered without looking at the data passed in.
type KeyCache struct {
	name    string
	entries *LRU[string, *etag.Tag]
	logger  observe.Logger
	inst    observe.CacheInstrumentation
	group   *singleflight.Group // nil unless coalescing
}

// NewKeyCache creates a KeyCache holding at most capacity tags.
func NewKeyCache(capacity int, opts ...Option) *KeyCache {
	o := newOptions(KeyCacheName, opts)
	c := &KeyCache{
		name:    o.name,
		entries: NewLRU[string, *etag.Tag](capacity),
		logger:  o.logger,
		inst:    o.inst,
	}
	if o.coalesce {
		c.group = new(singleflight.Group)
	}
	return c
}

// GetOrInsert returns the tag cached for key, or computes one from data,
// caches it and returns it.
func (c *KeyCache) GetOrInsert(ctx context.Context, key string, data []byte) *etag.Tag {
	if tag, ok := c.entries.Get(key); ok {
		c.inst.RecordLookup(ctx, c.name, observe.LookupHit)
		return tag
	}
	c.inst.RecordLookup(ctx, c.name, observe.LookupMiss)

	if c.group == nil {
		return c.fill(ctx, key, data)
	}
	v, _, _ := c.group.Do(key, func() (any, error) {
		return c.fill(ctx, key, data), nil
	})
	return v.(*etag.Tag)
}

func (c *KeyCache) fill(ctx context.Context, key string, data []byte) *etag.Tag {
	ctx, done := c.inst.StartFingerprint(ctx, c.name, key)
	tag := etag.FromBytes(data)
	done(int64(len(data)), nil)

	if c.entries.Add(key, tag) {
		c.inst.RecordEviction(ctx, c.name)
	}
	return tag
}

// Contains reports whether key is cached. A hit refreshes its recency.
func (c *KeyCache) Contains(key string) bool {
	return c.entries.Contains(key)
}

// Clear drops every cached tag.
func (c *KeyCache) Clear(ctx context.Context) {
	n := c.entries.Purge()
	c.inst.RecordClear(ctx, c.name)
	c.logger.Info(ctx, "cache cleared", observe.Field{Key: "removed", Value: n})
}

func (c *KeyCache) Name() string { return c.name }
func (c *KeyCache) Len() int     { return c.entries.Len() }
func (c *KeyCache) Cap() int     { return c.entries.Cap() }
