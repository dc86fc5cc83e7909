package cache

import (
	"container/list"
	"errors"
	"fmt"
	"sync"
	"time"

	"math-operations-api/internal/models"
)

// ErrInvalidConfig is returned by NewLRU when the size or TTL is unusable.
var ErrInvalidConfig = errors.New("invalid cache configuration")

// entry stores a cached result and its absolute expiration timestamp.
type entry[V any] struct {
	key       Key
	value     V
	createdAt time.Time
	expiresAt time.Time
}

// Options controls construction of an LRU.
type Options struct {
	// MaxSize is the maximum number of resident entries. Must be positive.
	MaxSize int

	// TTL is how long an entry stays valid after it is set. Must not be negative;
	// zero makes every entry expire immediately.
	TTL time.Duration

	// Now overrides the clock, mainly for tests. Defaults to time.Now.
	Now func() time.Time
}

// LRU is a size-bounded cache whose entries expire TTL after they are set.
// Expiry is discovered lazily on Get; there is no background sweep.
//
// A single mutex serializes every operation. Two Set calls racing on the same
// key resolve as last writer wins, and a Get racing a Set on the same key sees
// whichever took the lock first.
type LRU[V any] struct {
	mu sync.Mutex

	maxSize int
	ttl     time.Duration
	now     func() time.Time

	items map[Key]*list.Element
	// order holds *entry[V]; front is the most recently used.
	order *list.List

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64
}

// NewLRU constructs an LRU, failing fast on an invalid configuration.
func NewLRU[V any](opts Options) (*LRU[V], error) {
	if opts.MaxSize <= 0 {
		return nil, fmt.Errorf("%w: max size must be positive, got %d", ErrInvalidConfig, opts.MaxSize)
	}
	if opts.TTL < 0 {
		return nil, fmt.Errorf("%w: ttl must not be negative, got %s", ErrInvalidConfig, opts.TTL)
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &LRU[V]{
		maxSize: opts.MaxSize,
		ttl:     opts.TTL,
		now:     now,
		items:   make(map[Key]*list.Element, opts.MaxSize),
		order:   list.New(),
	}, nil
}

// Get implements Cache.Get.
func (c *LRU[V]) Get(op models.Operation, value int64, exponent *int64) (V, bool) {
	key := NewKey(op, value, exponent)

	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.misses++
		return zero, false
	}
	e := el.Value.(*entry[V])
	if !c.now().Before(e.expiresAt) {
		// expired: drop it without touching recency
		c.removeElement(el)
		c.expirations++
		c.misses++
		return zero, false
	}
	c.order.MoveToFront(el)
	c.hits++
	return e.value, true
}

// Set implements Cache.Set.
func (c *LRU[V]) Set(op models.Operation, value int64, result V, exponent *int64) {
	key := NewKey(op, value, exponent)

	c.mu.Lock()
	defer c.mu.Unlock()

	created := c.now()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = result
		e.createdAt = created
		e.expiresAt = created.Add(c.ttl)
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest)
			c.evictions++
		}
	}

	c.items[key] = c.order.PushFront(&entry[V]{
		key:       key,
		value:     result,
		createdAt: created,
		expiresAt: created.Add(c.ttl),
	})
}

// Clear implements Cache.Clear. Counters are kept.
func (c *LRU[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[Key]*list.Element, c.maxSize)
	c.order.Init()
}

// Stats implements Cache.Stats. Size counts resident entries, including
// expired ones that no Get has discovered yet.
func (c *LRU[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:        c.order.Len(),
		MaxSize:     c.maxSize,
		TTL:         c.ttl,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
	}
}

// removeElement unlinks el from both structures. Caller holds c.mu.
func (c *LRU[V]) removeElement(el *list.Element) {
	e := c.order.Remove(el).(*entry[V])
	delete(c.items, e.key)
}

// Ensure LRU implements Cache at compile time.
var _ Cache[any] = (*LRU[any])(nil)
