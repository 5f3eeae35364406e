package chainmap

import (
	"slices"
	"sync"
	"testing"
)

func TestRange_VisitsEveryEntryOnce(t *testing.T) {
	m := NewRWTable[int, int](modHasher{}, WithSlots(13))
	const n = 500
	for i := 0; i < n; i++ {
		m.Insert(i, -1)
	}
	for i := 0; i < n; i++ {
		m.Upsert(i, i*3)
	}
	if m.Size() != n {
		t.Fatalf("size got %d, want %d", m.Size(), n)
	}
	seen := make(map[int]int, n)
	if !m.Range(func(k, v int) bool {
		seen[k]++
		if v != k*3 {
			t.Fatalf("k=%d has stale value %d", k, v)
		}
		return true
	}) {
		t.Fatalf("full range returned false")
	}
	if len(seen) != n {
		t.Fatalf("range saw %d keys, want %d", len(seen), n)
	}
	for k, c := range seen {
		if c != 1 {
			t.Fatalf("k=%d visited %d times", k, c)
		}
	}
}

func TestRange_StopsEarly(t *testing.T) {
	m := NewRWTable[int, int](modHasher{}, WithSlots(7))
	for i := 0; i < 10; i++ {
		m.Insert(i, i)
	}
	visited := 0
	if m.Range(func(int, int) bool {
		visited++
		return visited < 3
	}) {
		t.Fatalf("stopped range returned true")
	}
	if visited != 3 {
		t.Fatalf("visited %d entries, want 3", visited)
	}

	// every bucket lock must have been released
	if !m.Insert(100, 100) || !m.Upsert(0, 1) {
		t.Fatalf("table unusable after early stop")
	}
}

func TestRangeSlots_OrderAndSkipEmpty(t *testing.T) {
	m := NewUnsynced[int, string](modHasher{}, WithSlots(7))
	m.Insert(2, "a")
	m.Insert(9, "b")
	m.Insert(5, "c")

	var slots []int
	m.RangeSlots(func(slot int, chain []Entry[int, string]) bool {
		slots = append(slots, slot)
		if slot == 2 {
			if len(chain) != 2 || chain[0].Key != 2 || chain[1].Key != 9 {
				t.Fatalf("slot 2 chain got %v", chain)
			}
		}
		return true
	})
	if !slices.Equal(slots, []int{2, 5}) {
		t.Fatalf("slots got %v, want [2 5]", slots)
	}

	calls := 0
	if m.RangeSlots(func(int, []Entry[int, string]) bool {
		calls++
		return false
	}) {
		t.Fatalf("stopped slot range returned true")
	}
	if calls != 1 {
		t.Fatalf("visitor called %d times after stop", calls)
	}
}

func TestRange_Iterators(t *testing.T) {
	m := NewRWTable[int, int](modHasher{}, WithSlots(5))
	for i := 0; i < 8; i++ {
		m.Insert(i, i+100)
	}
	var keys, values []int
	for k := range m.Keys() {
		keys = append(keys, k)
	}
	for v := range m.Values() {
		values = append(values, v)
	}
	slices.Sort(keys)
	slices.Sort(values)
	if !slices.Equal(keys, []int{0, 1, 2, 3, 4, 5, 6, 7}) {
		t.Fatalf("keys got %v", keys)
	}
	if values[0] != 100 || values[7] != 107 {
		t.Fatalf("values got %v", values)
	}

	n := 0
	for k, v := range m.All() {
		if v != k+100 {
			t.Fatalf("k=%d v=%d", k, v)
		}
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("break did not stop iteration, n=%d", n)
	}
}

func TestClear_All(t *testing.T) {
	m := NewRWTable[int, int](modHasher{}, WithSlots(7))
	for i := 0; i < 10; i++ {
		m.Insert(i, i)
	}
	if removed := m.Clear(); removed != 10 {
		t.Fatalf("clear removed %d, want 10", removed)
	}
	if !m.IsZero() {
		t.Fatalf("size after clear %d", m.Size())
	}
	if m.Contains(3) {
		t.Fatalf("key survived clear")
	}
	if m.Clear() != 0 {
		t.Fatalf("second clear removed entries")
	}
	if !m.Insert(3, 3) || m.Size() != 1 {
		t.Fatalf("table unusable after clear")
	}
}

func TestClearSlots_PartialThenStop(t *testing.T) {
	m := NewMutexTable[int, int](modHasher{}, WithSlots(7))
	for i := 0; i < 10; i++ {
		m.Insert(i, i)
	}
	var visited []int
	if m.ClearSlots(func(slot int, chain []Entry[int, int]) bool {
		visited = append(visited, slot)
		return slot < 2
	}) {
		t.Fatalf("stopped clear returned true")
	}
	if !slices.Equal(visited, []int{0, 1, 2}) {
		t.Fatalf("visited %v, want [0 1 2]", visited)
	}
	// slots 0 and 1 ({0,7} and {1,8}) are cleared, slot 2 and later untouched
	for _, k := range []int{0, 7, 1, 8} {
		if m.Contains(k) {
			t.Fatalf("key %d survived a completed bucket", k)
		}
	}
	for _, k := range []int{2, 9, 3, 4, 5, 6} {
		if !m.Contains(k) {
			t.Fatalf("key %d removed from an unfinished bucket", k)
		}
	}
	if m.Size() != 6 {
		t.Fatalf("size got %d, want 6", m.Size())
	}
}

func TestClearRange_Drain(t *testing.T) {
	m := NewSpinTable[int, string](modHasher{}, WithSlots(3))
	m.Insert(1, "x")
	m.Insert(4, "y")
	m.Insert(2, "z")
	drained := map[int]string{}
	if !m.ClearRange(func(k int, v string) bool {
		drained[k] = v
		return true
	}) {
		t.Fatalf("full drain returned false")
	}
	if len(drained) != 3 || drained[4] != "y" {
		t.Fatalf("drained %v", drained)
	}
	if !m.IsZero() {
		t.Fatalf("size after drain %d", m.Size())
	}
}

func TestClearRange_StopKeepsCurrentBucket(t *testing.T) {
	m := NewRWTable[int, int](modHasher{}, WithSlots(7))
	for i := 0; i < 10; i++ {
		m.Insert(i, i)
	}
	if m.ClearRange(func(k, _ int) bool { return k != 9 }) {
		t.Fatalf("stopped clear returned true")
	}
	// slot 2 holds 2 then 9, rejected at 9
	if !m.Contains(2) || !m.Contains(9) {
		t.Fatalf("rejected bucket was modified")
	}
	if m.Size() != 6 {
		t.Fatalf("size got %d, want 6", m.Size())
	}
}

func TestClear_ConcurrentWithInserts(t *testing.T) {
	m := NewRWTable[int, int](modHasher{}, WithSlots(31))
	var wg sync.WaitGroup
	const n = 5000
	removed := 0
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; i++ {
			m.Insert(i, i)
		}
	}()
	for i := 0; i < 10; i++ {
		removed += m.Clear()
	}
	wg.Wait()
	removed += m.Clear()
	if removed != n {
		t.Fatalf("removed %d entries in total, want %d", removed, n)
	}
	if !m.IsZero() {
		t.Fatalf("size got %d", m.Size())
	}
}
