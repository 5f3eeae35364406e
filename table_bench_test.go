package chainmap

import (
	"strconv"
	"testing"
)

const benchSlots = 1 << 16

var benchData = func() []string {
	data := make([]string, 1<<14)
	for i := range data {
		data[i] = "key-" + strconv.Itoa(i)
	}
	return data
}()

func BenchmarkLookup_RW(b *testing.B) {
	benchmarkLookup(b, NewRWTable[string, int](StringHasher{}, WithSlots(benchSlots)))
}

func BenchmarkLookup_Mutex(b *testing.B) {
	benchmarkLookup(b, NewMutexTable[string, int](StringHasher{}, WithSlots(benchSlots)))
}

func BenchmarkLookup_Spin(b *testing.B) {
	benchmarkLookup(b, NewSpinTable[string, int](StringHasher{}, WithSlots(benchSlots)))
}

func benchmarkLookup[L any, PL Locker[L]](b *testing.B, m *Table[string, int, L, PL]) {
	b.ReportAllocs()
	for i := range benchData {
		m.Insert(benchData[i], i)
	}
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			_, _ = m.Lookup(benchData[i])
			i++
			if i >= len(benchData) {
				i = 0
			}
		}
	})
}

func BenchmarkUpsert_RW(b *testing.B) {
	benchmarkUpsert(b, NewRWTable[string, int](StringHasher{}, WithSlots(benchSlots)))
}

func BenchmarkUpsert_Spin(b *testing.B) {
	benchmarkUpsert(b, NewSpinTable[string, int](XXH3StringHasher{}, WithSlots(benchSlots)))
}

func benchmarkUpsert[L any, PL Locker[L]](b *testing.B, m *Table[string, int, L, PL]) {
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			m.Upsert(benchData[i], i)
			i++
			if i >= len(benchData) {
				i = 0
			}
		}
	})
}

func BenchmarkUnsynced_InsertRemove(b *testing.B) {
	m := NewUnsynced[int, int](IntHasher[int]{}, WithSlots(benchSlots))
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Insert(i, i)
		m.Remove(i)
	}
}
