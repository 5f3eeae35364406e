package chainmap

// RangeSlots calls visitor once for every non-empty bucket, in slot order,
// with the bucket's whole chain. The bucket is held with shared access for
// the duration of the call.
//
// Notes:
//   - Never modify or retain chain; it is only valid during the call.
//   - If visitor returns false, the traversal stops and RangeSlots
//     returns false.
//   - Only one bucket is locked at a time. Changes made concurrently to
//     buckets not yet visited may or may not be observed.
func (t *Table[K, V, L, PL]) RangeSlots(visitor func(slot int, chain []Entry[K, V]) bool) bool {
	for i := range t.buckets {
		b := &t.buckets[i]
		if b.n.Load() == 0 {
			continue
		}
		if !t.visitShared(i, b, visitor) {
			return false
		}
	}
	return true
}

func (t *Table[K, V, L, PL]) visitShared(
	slot int,
	b *bucket[K, V, L],
	visitor func(slot int, chain []Entry[K, V]) bool,
) bool {
	PL(&b.lock).RLock()
	defer PL(&b.lock).RUnlock()

	if len(b.chain) == 0 {
		return true
	}
	return visitor(slot, b.chain)
}

// Range calls visitor for every entry, bucket by bucket in slot order and
// in chain order within a bucket. It returns false as soon as visitor does.
func (t *Table[K, V, L, PL]) Range(visitor func(key K, value V) bool) bool {
	return t.RangeSlots(func(_ int, chain []Entry[K, V]) bool {
		return visitEach(chain, visitor)
	})
}

func visitEach[K, V any](chain []Entry[K, V], visitor func(key K, value V) bool) bool {
	for i := range chain {
		if !visitor(chain[i].Key, chain[i].Value) {
			return false
		}
	}
	return true
}

// All is the iterator version of Range.
func (t *Table[K, V, L, PL]) All() func(yield func(K, V) bool) {
	return func(yield func(K, V) bool) {
		t.Range(yield)
	}
}

// Keys is the iterator version for iterating over all keys.
func (t *Table[K, V, L, PL]) Keys() func(yield func(K) bool) {
	return func(yield func(K) bool) {
		t.Range(func(key K, _ V) bool {
			return yield(key)
		})
	}
}

// Values is the iterator version for iterating over all values.
func (t *Table[K, V, L, PL]) Values() func(yield func(V) bool) {
	return func(yield func(V) bool) {
		t.Range(func(_ K, value V) bool {
			return yield(value)
		})
	}
}

// Clear removes every entry and returns how many were removed.
func (t *Table[K, V, L, PL]) Clear() int {
	removed, _ := t.clearSlots(nil)
	return removed
}

// ClearSlots walks the buckets like RangeSlots but with exclusive access,
// and erases each bucket after visitor has seen its chain.
//
// When visitor returns false the walk stops: buckets already visited stay
// cleared, the bucket visitor rejected keeps its entries, and later
// buckets are not touched. ClearSlots then returns false.
func (t *Table[K, V, L, PL]) ClearSlots(visitor func(slot int, chain []Entry[K, V]) bool) bool {
	_, completed := t.clearSlots(visitor)
	return completed
}

// ClearRange is ClearSlots with a per-entry visitor. A bucket is erased
// only if visitor accepted every entry in it.
func (t *Table[K, V, L, PL]) ClearRange(visitor func(key K, value V) bool) bool {
	return t.ClearSlots(func(_ int, chain []Entry[K, V]) bool {
		return visitEach(chain, visitor)
	})
}

func (t *Table[K, V, L, PL]) clearSlots(
	visitor func(slot int, chain []Entry[K, V]) bool,
) (removed int, completed bool) {
	for i := range t.buckets {
		b := &t.buckets[i]
		if b.n.Load() == 0 {
			continue
		}
		n, ok := t.clearBucket(i, b, visitor)
		removed += n
		if !ok {
			return removed, false
		}
	}
	return removed, true
}

func (t *Table[K, V, L, PL]) clearBucket(
	slot int,
	b *bucket[K, V, L],
	visitor func(slot int, chain []Entry[K, V]) bool,
) (removed int, ok bool) {
	PL(&b.lock).Lock()
	defer PL(&b.lock).Unlock()

	if len(b.chain) == 0 {
		return 0, true
	}
	if visitor != nil && !visitor(slot, b.chain) {
		return 0, false
	}
	removed = b.reset()
	t.count.Add(-int64(removed))
	return removed, true
}
