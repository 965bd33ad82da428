package cache

import (
	"context"
	"strconv"
	"testing"
)

func BenchmarkKeyCache_Hit(b *testing.B) {
	c := NewKeyCache(DefaultCapacity)
	ctx := context.Background()
	data := make([]byte, 64<<10)
	c.GetOrInsert(ctx, "k", data)

	b.ReportAllocs()
	for b.Loop() {
		c.GetOrInsert(ctx, "k", data)
	}
}

func BenchmarkKeyCache_Miss64KiB(b *testing.B) {
	c := NewKeyCache(0)
	ctx := context.Background()
	data := make([]byte, 64<<10)

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		c.GetOrInsert(ctx, "k", data)
	}
}

func BenchmarkKeyCache_Parallel(b *testing.B) {
	c := NewKeyCache(DefaultCapacity)
	ctx := context.Background()
	keys := make([]string, 128)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	data := []byte("small payload")

	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			c.GetOrInsert(ctx, keys[i%len(keys)], data)
			i++
		}
	})
}

func BenchmarkFileCache_Hit(b *testing.B) {
	fsys := newTestFS()
	fsys.write("a.txt", string(make([]byte, 64<<10)), t0)
	c := NewFileCache(DefaultCapacity, WithFileSystem(fsys))
	ctx := context.Background()
	if _, err := c.GetOrInsert(ctx, "a.txt"); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for b.Loop() {
		_, _ = c.GetOrInsert(ctx, "a.txt")
	}
}
