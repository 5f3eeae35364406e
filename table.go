package chainmap

import (
	"slices"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// DefaultSlots is the bucket count used when none is configured.
// A large prime keeps common hash distributions from clustering.
const DefaultSlots = 999983

// Table is a fixed-capacity hash table using separate chaining, safe for
// concurrent use according to its lock policy L.
//
// Key features:
//   - Every bucket owns one lock; single-key operations touch exactly
//     one bucket and never take a table-wide lock
//   - The lock policy is a type parameter, so single-goroutine tables pay
//     nothing for synchronization (NoLock) and read-heavy tables can share
//     buckets between readers (RWLock)
//   - Hashing and key equality come from a caller supplied Hasher, keys
//     need not be comparable
//   - The bucket array is allocated once and never resized
//
// Operations on the same bucket are totally ordered by its lock. Operations
// on different buckets are unordered. Traversals lock one bucket at a time
// and are therefore not snapshots of the whole table.
//
// Callbacks (combiners, update functions and visitors) run while the
// bucket lock is held and must not call back into the same Table.
//
// A Table must not be copied after first use.
type Table[K, V any, L any, PL Locker[L]] struct {
	//lint:ignore U1000 prevents false sharing
	_ cpu.CacheLinePad
	// count is the only state mutated outside bucket locks
	count atomic.Int64
	//lint:ignore U1000 prevents false sharing
	_ cpu.CacheLinePad

	hasher  Hasher[K]
	buckets []bucket[K, V, L]
}

// Unsynced is a Table without any locking, for single-goroutine use.
type Unsynced[K, V any] = Table[K, V, NoLock, *NoLock]

// MutexTable is a Table whose buckets are guarded by a sync.Mutex.
type MutexTable[K, V any] = Table[K, V, MutexLock, *MutexLock]

// RWTable is a Table whose buckets are guarded by a sync.RWMutex.
type RWTable[K, V any] = Table[K, V, RWLock, *RWLock]

// SpinTable is a Table whose buckets are guarded by a SpinLock.
type SpinTable[K, V any] = Table[K, V, SpinLock, *SpinLock]

// Entry is a key-value pair stored in a bucket chain.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// bucket is one slot of the table: its lock plus its chain.
type bucket[K, V any, L any] struct {
	//lint:ignore U1000 prevents false sharing
	_    bucketPad
	lock L
	// n mirrors len(chain) so traversals can skip empty buckets
	// without taking the lock
	n     atomic.Int32
	chain []Entry[K, V]
}

// find returns the index of key in the chain, or -1.
// Must be called with the bucket lock held.
func (b *bucket[K, V, L]) find(hasher Hasher[K], key K) int {
	for i := range b.chain {
		if hasher.Equal(key, b.chain[i].Key) {
			return i
		}
	}
	return -1
}

// Must be called with the bucket lock held exclusively.
func (b *bucket[K, V, L]) push(key K, value V) {
	b.chain = append(b.chain, Entry[K, V]{Key: key, Value: value})
	b.n.Store(int32(len(b.chain)))
}

// Must be called with the bucket lock held exclusively.
func (b *bucket[K, V, L]) erase(i int) {
	b.chain = slices.Delete(b.chain, i, i+1)
	b.n.Store(int32(len(b.chain)))
}

// Must be called with the bucket lock held exclusively.
func (b *bucket[K, V, L]) reset() int {
	n := len(b.chain)
	b.chain = nil
	b.n.Store(0)
	return n
}

// Config defines configurable Table options.
type Config struct {
	slots int
}

// WithSlots sets the number of buckets. The count is fixed for the life
// of the table. If slots is zero or negative, DefaultSlots is used.
func WithSlots(slots int) func(*Config) {
	return func(c *Config) {
		c.slots = slots
	}
}

// New creates a Table that uses lock policy L in every bucket.
//
// Parameters:
//   - hasher: hash and equality for keys, must not be nil
//   - WithSlots option for the bucket count
//
// The lock pointer type is inferred:
//
//	t := chainmap.New[string, int, chainmap.RWLock](chainmap.StringHasher{})
func New[K, V any, L any, PL Locker[L]](
	hasher Hasher[K],
	options ...func(*Config),
) *Table[K, V, L, PL] {
	if hasher == nil {
		panic("chainmap: nil hasher")
	}
	c := &Config{}
	for _, o := range options {
		o(c)
	}
	if c.slots <= 0 {
		c.slots = DefaultSlots
	}
	return &Table[K, V, L, PL]{
		hasher:  hasher,
		buckets: make([]bucket[K, V, L], c.slots),
	}
}

// NewRWTable creates a Table with reader/writer bucket locks.
func NewRWTable[K, V any](hasher Hasher[K], options ...func(*Config)) *RWTable[K, V] {
	return New[K, V, RWLock](hasher, options...)
}

// NewMutexTable creates a Table with mutex bucket locks.
func NewMutexTable[K, V any](hasher Hasher[K], options ...func(*Config)) *MutexTable[K, V] {
	return New[K, V, MutexLock](hasher, options...)
}

// NewSpinTable creates a Table with spinning bucket locks.
func NewSpinTable[K, V any](hasher Hasher[K], options ...func(*Config)) *SpinTable[K, V] {
	return New[K, V, SpinLock](hasher, options...)
}

// NewUnsynced creates a Table without bucket locks.
func NewUnsynced[K, V any](hasher Hasher[K], options ...func(*Config)) *Unsynced[K, V] {
	return New[K, V, NoLock](hasher, options...)
}

// bucketFor hashes the key outside any lock and returns its bucket.
func (t *Table[K, V, L, PL]) bucketFor(key K) *bucket[K, V, L] {
	return &t.buckets[t.hasher.Hash(key)%uint64(len(t.buckets))]
}

// Insert adds key with value if the key is absent. It returns false,
// leaving the stored value untouched, if the key already exists.
func (t *Table[K, V, L, PL]) Insert(key K, value V) bool {
	b := t.bucketFor(key)
	PL(&b.lock).Lock()
	defer PL(&b.lock).Unlock()

	if b.find(t.hasher, key) >= 0 {
		return false
	}
	b.push(key, value)
	t.count.Add(1)
	return true
}

// Upsert stores value for key, overwriting any existing value in place.
// It always returns true.
func (t *Table[K, V, L, PL]) Upsert(key K, value V) bool {
	b := t.bucketFor(key)
	PL(&b.lock).Lock()
	defer PL(&b.lock).Unlock()

	if i := b.find(t.hasher, key); i >= 0 {
		b.chain[i].Value = value
		return true
	}
	b.push(key, value)
	t.count.Add(1)
	return true
}

// InsertWith merges value into the entry for key using combine.
//
// If key exists, combine is applied to the stored value in place and its
// result is returned verbatim. Otherwise combine is applied to a fresh
// zero V, which is inserted only when combine returns true.
func (t *Table[K, V, L, PL]) InsertWith(
	key K,
	value V,
	combine func(stored *V, value V) bool,
) bool {
	return Merge(t, key, value, combine)
}

// Merge is InsertWith for an input type T that differs from the stored
// value type, e.g. appending single items to a per-key slice:
//
//	chainmap.Merge(t, "k", 7, func(s *[]int, v int) bool {
//		*s = append(*s, v)
//		return true
//	})
func Merge[K, V, T any, L any, PL Locker[L]](
	t *Table[K, V, L, PL],
	key K,
	value T,
	combine func(stored *V, value T) bool,
) bool {
	b := t.bucketFor(key)
	PL(&b.lock).Lock()
	defer PL(&b.lock).Unlock()

	if i := b.find(t.hasher, key); i >= 0 {
		return combine(&b.chain[i].Value, value)
	}
	var fresh V
	if !combine(&fresh, value) {
		return false
	}
	b.push(key, fresh)
	t.count.Add(1)
	return true
}

// LoadOrInsert returns the existing value for the key if present.
// Otherwise, it stores and returns the given value.
// The loaded result is true if the value was loaded, false if stored.
func (t *Table[K, V, L, PL]) LoadOrInsert(key K, value V) (actual V, loaded bool) {
	b := t.bucketFor(key)
	PL(&b.lock).Lock()
	defer PL(&b.lock).Unlock()

	if i := b.find(t.hasher, key); i >= 0 {
		return b.chain[i].Value, true
	}
	b.push(key, value)
	t.count.Add(1)
	return value, false
}

// Update applies fn to the stored value of key in place and reports
// whether the key was present.
func (t *Table[K, V, L, PL]) Update(key K, fn func(value *V)) bool {
	b := t.bucketFor(key)
	PL(&b.lock).Lock()
	defer PL(&b.lock).Unlock()

	i := b.find(t.hasher, key)
	if i < 0 {
		return false
	}
	fn(&b.chain[i].Value)
	return true
}

// Remove deletes key and returns the value it held.
// The ok result is false, and nothing changes, if the key was absent.
func (t *Table[K, V, L, PL]) Remove(key K) (value V, ok bool) {
	b := t.bucketFor(key)
	PL(&b.lock).Lock()
	defer PL(&b.lock).Unlock()

	i := b.find(t.hasher, key)
	if i < 0 {
		return value, false
	}
	value = b.chain[i].Value
	b.erase(i)
	t.count.Add(-1)
	return value, true
}

// Lookup returns a copy of the value stored for key.
// Only shared access to the bucket is taken.
func (t *Table[K, V, L, PL]) Lookup(key K) (value V, ok bool) {
	b := t.bucketFor(key)
	PL(&b.lock).RLock()
	defer PL(&b.lock).RUnlock()

	if i := b.find(t.hasher, key); i >= 0 {
		return b.chain[i].Value, true
	}
	return value, false
}

// Contains reports whether key is stored.
func (t *Table[K, V, L, PL]) Contains(key K) bool {
	_, ok := t.Lookup(key)
	return ok
}

// Size returns the number of stored entries. This is an O(1) operation.
//
// Under concurrent modification the result is a value the counter held at
// some instant; it is not synchronized with any traversal.
func (t *Table[K, V, L, PL]) Size() int {
	return int(t.count.Load())
}

// IsZero reports whether the table holds no entries.
func (t *Table[K, V, L, PL]) IsZero() bool {
	return t.Size() == 0
}

// Slots returns the fixed number of buckets.
func (t *Table[K, V, L, PL]) Slots() int {
	return len(t.buckets)
}

// Clone returns a new Table with the same hasher, slot count and entries.
// Each source bucket is copied under its shared lock, so the clone is not
// a point-in-time snapshot when the source is being modified concurrently.
func (t *Table[K, V, L, PL]) Clone() *Table[K, V, L, PL] {
	clone := &Table[K, V, L, PL]{
		hasher:  t.hasher,
		buckets: make([]bucket[K, V, L], len(t.buckets)),
	}
	t.RangeSlots(func(slot int, chain []Entry[K, V]) bool {
		nb := &clone.buckets[slot]
		nb.chain = slices.Clone(chain)
		nb.n.Store(int32(len(chain)))
		clone.count.Add(int64(len(chain)))
		return true
	})
	return clone
}
