// Package cache memoizes entity tags so unchanged content is never hashed twice.
//
// Two caches share one bounded LRU primitive:
//
//   - KeyCache maps a caller-chosen key to a tag. The key is trusted: once a
//     key is cached its data is never read again, so callers must change the
//     key whenever the content changes (see Keyer).
//   - FileCache maps a file path to a tag and the modification time observed
//     when it was computed. A lookup re-stats the file and reuses the tag only
//     while the modification time is unchanged.
//
// Both caches hold their lock only around map access. Hashing and file I/O
// run outside it, so concurrent misses on one key may each compute the tag;
// WithCoalescing collapses them into one computation.
package cache
