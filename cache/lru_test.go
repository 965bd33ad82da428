package cache

import (
	"slices"
	"strconv"
	"sync"
	"testing"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	l := NewLRU[string, int](2)

	if l.Add("A", 1) || l.Add("B", 2) {
		t.Fatal("unexpected eviction below capacity")
	}
	if !l.Add("C", 3) {
		t.Fatal("expected eviction when adding beyond capacity")
	}

	if _, ok := l.Get("A"); ok {
		t.Error("A should have been evicted")
	}
	for _, k := range []string{"B", "C"} {
		if _, ok := l.Get(k); !ok {
			t.Errorf("%s should be present", k)
		}
	}
}

func TestLRU_GetRefreshesRecency(t *testing.T) {
	l := NewLRU[string, int](2)
	l.Add("A", 1)
	l.Add("B", 2)

	if !l.Contains("A") {
		t.Fatal("A missing")
	}
	l.Add("C", 3)

	if got, want := l.Keys(), []string{"A", "C"}; !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestLRU_ReplaceDoesNotEvict(t *testing.T) {
	l := NewLRU[string, int](2)
	l.Add("A", 1)
	l.Add("B", 2)

	if l.Add("A", 10) {
		t.Error("replacing a key must not evict")
	}
	if v, _ := l.Get("A"); v != 10 {
		t.Errorf("Get(A) = %d, want 10", v)
	}
	if l.Len() != 2 {
		t.Errorf("Len() = %d, want 2", l.Len())
	}
}

func TestLRU_ZeroCapacity(t *testing.T) {
	for _, capacity := range []int{0, -3} {
		l := NewLRU[string, int](capacity)

		if l.Add("A", 1) {
			t.Error("zero-capacity Add reported an eviction")
		}
		if l.Contains("A") {
			t.Error("zero-capacity LRU retained an entry")
		}
		if l.Len() != 0 || l.Cap() != 0 {
			t.Errorf("Len/Cap = %d/%d, want 0/0", l.Len(), l.Cap())
		}
		if l.Purge() != 0 || l.Remove("A") || l.Keys() != nil {
			t.Error("zero-capacity LRU reported contents")
		}
	}
}

func TestLRU_PurgeAndRemove(t *testing.T) {
	l := NewLRU[int, int](4)
	for i := range 3 {
		l.Add(i, i)
	}

	if !l.Remove(1) || l.Remove(1) {
		t.Error("Remove should report presence exactly once")
	}
	if n := l.Purge(); n != 2 {
		t.Errorf("Purge() = %d, want 2", n)
	}
	if l.Len() != 0 {
		t.Errorf("Len() after Purge = %d", l.Len())
	}
	if l.Cap() != 4 {
		t.Errorf("Cap() after Purge = %d, want 4", l.Cap())
	}
}

func TestLRU_ConcurrentUse(t *testing.T) {
	l := NewLRU[string, int](16)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 500 {
				k := strconv.Itoa((g*31 + i) % 40)
				l.Add(k, i)
				l.Get(k)
				if i%100 == 0 {
					l.Purge()
				}
			}
		}()
	}
	wg.Wait()

	if l.Len() > l.Cap() {
		t.Errorf("Len() = %d exceeds Cap() = %d", l.Len(), l.Cap())
	}
}
