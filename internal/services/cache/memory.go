package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

const defaultMemoryTTL = 30 * time.Minute

// MemoryCache is a size-bounded in-process cache with least-recently-used eviction
type MemoryCache struct {
	mu          sync.Mutex
	items       map[string]*list.Element
	lru         *list.List
	maxBytes    int64
	currentSize int64
	now         func() time.Time

	hits, misses, sets, evictions atomic.Int64

	stopCh chan struct{}
	once   sync.Once
	wg     sync.WaitGroup
}

type memoryItem struct {
	key    string
	value  []byte
	expiry time.Time
	size   int64
}

// NewMemoryCache creates a cache capped at maxSizeMB (0 means unbounded) and starts
// its expiry sweeper
func NewMemoryCache(maxSizeMB int64) *MemoryCache {
	mc := &MemoryCache{
		items:    make(map[string]*list.Element),
		lru:      list.New(),
		maxBytes: maxSizeMB * 1024 * 1024,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}

	mc.wg.Add(1)
	go mc.sweep(time.Minute)

	return mc
}

// Get retrieves a value and marks it recently used
func (mc *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	el, ok := mc.items[key]
	if !ok {
		mc.misses.Add(1)
		return nil, ErrCacheMiss
	}
	item := el.Value.(*memoryItem)
	if !mc.now().Before(item.expiry) {
		mc.removeElement(el)
		mc.misses.Add(1)
		return nil, ErrCacheMiss
	}

	mc.lru.MoveToFront(el)
	mc.hits.Add(1)
	return item.value, nil
}

// Set stores a value, evicting least recently used entries to stay under the cap
func (mc *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}

	item := &memoryItem{
		key:    key,
		value:  value,
		expiry: mc.now().Add(ttl),
		size:   int64(len(key) + len(value)),
	}

	mc.mu.Lock()
	defer mc.mu.Unlock()

	if el, ok := mc.items[key]; ok {
		mc.removeElement(el)
	}
	if mc.maxBytes > 0 && item.size > mc.maxBytes {
		// larger than the whole cache; never stored
		return nil
	}
	for mc.maxBytes > 0 && mc.currentSize+item.size > mc.maxBytes {
		oldest := mc.lru.Back()
		if oldest == nil {
			break
		}
		mc.removeElement(oldest)
		mc.evictions.Add(1)
	}

	mc.items[key] = mc.lru.PushFront(item)
	mc.currentSize += item.size
	mc.sets.Add(1)
	return nil
}

// Delete removes a value from the cache
func (mc *MemoryCache) Delete(ctx context.Context, key string) error {
	mc.mu.Lock()
	if el, ok := mc.items[key]; ok {
		mc.removeElement(el)
	}
	mc.mu.Unlock()
	return nil
}

// Stats returns cache statistics
func (mc *MemoryCache) Stats() Stats {
	mc.mu.Lock()
	entries, size := int64(len(mc.items)), mc.currentSize
	mc.mu.Unlock()

	return Stats{
		Backend:   "memory",
		Hits:      mc.hits.Load(),
		Misses:    mc.misses.Load(),
		Sets:      mc.sets.Load(),
		Evictions: mc.evictions.Load(),
		Entries:   entries,
		Size:      size,
		MaxSize:   mc.maxBytes,
	}
}

// Close stops the sweeper; safe to call more than once
func (mc *MemoryCache) Close() error {
	mc.once.Do(func() { close(mc.stopCh) })
	mc.wg.Wait()
	return nil
}

func (mc *MemoryCache) sweep(interval time.Duration) {
	defer mc.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			mc.removeExpired()
		case <-mc.stopCh:
			return
		}
	}
}

func (mc *MemoryCache) removeExpired() int {
	now := mc.now()
	mc.mu.Lock()
	defer mc.mu.Unlock()

	removed := 0
	for _, el := range mc.items {
		if !now.Before(el.Value.(*memoryItem).expiry) {
			mc.removeElement(el)
			mc.evictions.Add(1)
			removed++
		}
	}
	return removed
}

// removeElement must be called with mu held
func (mc *MemoryCache) removeElement(el *list.Element) {
	item := el.Value.(*memoryItem)
	mc.lru.Remove(el)
	delete(mc.items, item.key)
	mc.currentSize -= item.size
}
