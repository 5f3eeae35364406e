package chainmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
)

// Stats returns statistics for the Table. Just like other table
// methods, this one is thread-safe. Yet it's an O(slots) operation,
// so it should be used only for diagnostics or debugging purposes.
func (t *Table[K, V, L, PL]) Stats() *Stats {
	stats := &Stats{
		Slots:    len(t.buckets),
		MinChain: math.MaxInt,
	}
	for i := range t.buckets {
		b := &t.buckets[i]
		n := t.chainLen(b)
		stats.Size += n
		if n == 0 {
			stats.EmptySlots++
		} else {
			stats.UsedSlots++
		}
		stats.MinChain = min(stats.MinChain, n)
		stats.MaxChain = max(stats.MaxChain, n)
	}
	if stats.Slots == 0 {
		stats.MinChain = 0
	}
	if stats.UsedSlots > 0 {
		stats.AvgChain = float64(stats.Size) / float64(stats.UsedSlots)
	}
	stats.Counter = t.Size()
	return stats
}

func (t *Table[K, V, L, PL]) chainLen(b *bucket[K, V, L]) int {
	PL(&b.lock).RLock()
	defer PL(&b.lock).RUnlock()
	return len(b.chain)
}

// Stats is Table statistics.
//
// Warning: table statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type Stats struct {
	// Slots is the fixed number of buckets.
	Slots int
	// UsedSlots is the number of buckets holding at least one entry.
	UsedSlots int
	// EmptySlots is the number of buckets that hold no entries.
	EmptySlots int
	// Size is the number of entries counted while walking the buckets.
	Size int
	// Counter is the number of entries according to the atomic counter.
	// In case of concurrent modifications this may differ from Size.
	Counter int
	// MinChain is the shortest chain length over all buckets.
	MinChain int
	// MaxChain is the longest chain length over all buckets.
	MaxChain int
	// AvgChain is the mean chain length over used buckets.
	AvgChain float64
}

// String returns string representation of table stats.
func (s *Stats) String() string {
	var sb strings.Builder
	sb.WriteString("Stats{\n")
	sb.WriteString(fmt.Sprintf("Slots:      %d\n", s.Slots))
	sb.WriteString(fmt.Sprintf("UsedSlots:  %d\n", s.UsedSlots))
	sb.WriteString(fmt.Sprintf("EmptySlots: %d\n", s.EmptySlots))
	sb.WriteString(fmt.Sprintf("Size:       %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("Counter:    %d\n", s.Counter))
	sb.WriteString(fmt.Sprintf("MinChain:   %d\n", s.MinChain))
	sb.WriteString(fmt.Sprintf("MaxChain:   %d\n", s.MaxChain))
	sb.WriteString(fmt.Sprintf("AvgChain:   %.2f\n", s.AvgChain))
	sb.WriteString("}\n")
	return sb.String()
}

// MarshalZerologObject lets stats be attached to a log event with
// zerolog.Event.Object.
func (s *Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("slots", s.Slots).
		Int("usedSlots", s.UsedSlots).
		Int("emptySlots", s.EmptySlots).
		Int("size", s.Size).
		Int("counter", s.Counter).
		Int("minChain", s.MinChain).
		Int("maxChain", s.MaxChain).
		Float64("avgChain", s.AvgChain)
}

// String implement the formatting output interface fmt.Stringer.
// At most 1024 entries are printed.
func (t *Table[K, V, L, PL]) String() string {
	const limit = 1024
	var sb strings.Builder
	sb.WriteString("Table[")
	n := 0
	t.Range(func(key K, value V) bool {
		if n > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%v:%v", key, value)
		n++
		return n < limit
	})
	sb.WriteByte(']')
	return sb.String()
}
