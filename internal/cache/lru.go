package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache bounds memory by evicting the least recently used entry
// once full. Entries also expire after a fixed TTL, checked on access
// and by CleanExpired sweeps.
type LRUCache[T any] struct {
	mu    sync.Mutex
	limit int
	ttl   time.Duration
	index map[string]*list.Element
	order *list.List
}

type lruEntry[T any] struct {
	key     string
	value   T
	expires time.Time
}

func NewLRUCache[T any](limit int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		limit: limit,
		ttl:   ttl,
		index: make(map[string]*list.Element),
		order: list.New(),
	}
}

func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	el, ok := c.index[key]
	if !ok {
		return zero, false
	}
	entry := el.Value.(*lruEntry[T])
	if time.Now().After(entry.expires) {
		c.evict(el)
		return zero, false
	}
	c.order.MoveToFront(el)
	return entry.value, true
}

func (c *LRUCache[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &lruEntry[T]{key: key, value: value, expires: time.Now().Add(c.ttl)}
	if el, ok := c.index[key]; ok {
		el.Value = entry
		c.order.MoveToFront(el)
		return
	}
	c.index[key] = c.order.PushFront(entry)
	if c.order.Len() > c.limit {
		if oldest := c.order.Back(); oldest != nil {
			c.evict(oldest)
		}
	}
}

func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.index[key]; ok {
		c.evict(el)
	}
}

// CleanExpired drops every expired entry and reports how many went.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var expired []*list.Element
	for el := c.order.Front(); el != nil; el = el.Next() {
		if now.After(el.Value.(*lruEntry[T]).expires) {
			expired = append(expired, el)
		}
	}
	for _, el := range expired {
		c.evict(el)
	}
	return len(expired)
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

// evict must be called with the lock held.
func (c *LRUCache[T]) evict(el *list.Element) {
	delete(c.index, el.Value.(*lruEntry[T]).key)
	c.order.Remove(el)
}
