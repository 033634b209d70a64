package common

import (
	"sync"
	"sync/atomic"
)

// Cache is a copy-on-write map for values that are computed once and read often, such
// as reflected method tables.
type Cache[K comparable, V any] struct {
	value atomic.Pointer[map[K]V]
	mu    sync.Mutex
}

func (cache *Cache[K, V]) GetOrElseUpdate(key K, create func() V) V {
	if m := cache.value.Load(); m != nil {
		if v, found := (*m)[key]; found {
			return v
		}
	}

	// Computed without the lock; concurrent callers may duplicate the work.
	v := create()

	cache.mu.Lock()
	defer cache.mu.Unlock()
	var last map[K]V
	if m := cache.value.Load(); m != nil {
		last = *m
	}
	next := make(map[K]V, len(last)+1)
	for k, lv := range last {
		next[k] = lv
	}
	next[key] = v
	cache.value.Store(&next)
	return v
}
