package chainmap

import (
	"bytes"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"github.com/dchest/siphash"
	"github.com/spaolacci/murmur3"
	"github.com/zeebo/xxh3"
)

// Hasher supplies the hash and equality functions a Table uses for keys.
//
// Both must be deterministic for as long as a key is stored, and consistent
// with each other: Equal(a, b) implies Hash(a) == Hash(b).
type Hasher[K any] interface {
	Hash(key K) uint64
	Equal(a, b K) bool
}

// HashFunc adapts a pair of plain functions to Hasher.
type HashFunc[K any] struct {
	HashFn  func(key K) uint64
	EqualFn func(a, b K) bool
}

func (h HashFunc[K]) Hash(key K) uint64 { return h.HashFn(key) }
func (h HashFunc[K]) Equal(a, b K) bool { return h.EqualFn(a, b) }

// Integer is the set of key types IntHasher accepts.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// IntHasher hashes an integer to itself. Sequential keys therefore land in
// sequential slots, which is usually the best distribution for them.
type IntHasher[K Integer] struct{}

func (IntHasher[K]) Hash(key K) uint64 { return uint64(key) }
func (IntHasher[K]) Equal(a, b K) bool { return a == b }

// ComparableHasher hashes any comparable key with the runtime's map hash.
// Each value returned by NewComparableHasher uses its own random seed.
// The zero value has no seed and panics on use.
type ComparableHasher[K comparable] struct {
	seed maphash.Seed
}

func NewComparableHasher[K comparable]() ComparableHasher[K] {
	return ComparableHasher[K]{seed: maphash.MakeSeed()}
}

func (h ComparableHasher[K]) Hash(key K) uint64 { return maphash.Comparable(h.seed, key) }
func (ComparableHasher[K]) Equal(a, b K) bool   { return a == b }

// StringHasher hashes strings with xxHash64.
type StringHasher struct{}

func (StringHasher) Hash(key string) uint64 { return xxhash.Sum64String(key) }
func (StringHasher) Equal(a, b string) bool { return a == b }

// XXH3StringHasher hashes strings with XXH3, which is faster than xxHash64
// on short keys.
type XXH3StringHasher struct{}

func (XXH3StringHasher) Hash(key string) uint64 { return xxh3.HashString(key) }
func (XXH3StringHasher) Equal(a, b string) bool { return a == b }

// MurmurStringHasher hashes strings with the 64-bit half of MurmurHash3 x64.
type MurmurStringHasher struct{}

func (MurmurStringHasher) Hash(key string) uint64 { return murmur3.Sum64([]byte(key)) }
func (MurmurStringHasher) Equal(a, b string) bool { return a == b }

// SipStringHasher hashes strings with keyed SipHash-2-4. Use it when keys
// come from untrusted input and bucket flooding is a concern.
type SipStringHasher struct {
	K0, K1 uint64
}

func (h SipStringHasher) Hash(key string) uint64 {
	return siphash.Hash(h.K0, h.K1, []byte(key))
}
func (SipStringHasher) Equal(a, b string) bool { return a == b }

// BytesHasher hashes byte slices with xxHash64. Stored slices must not be
// modified by the caller afterwards.
type BytesHasher struct{}

func (BytesHasher) Hash(key []byte) uint64 { return xxhash.Sum64(key) }
func (BytesHasher) Equal(a, b []byte) bool { return bytes.Equal(a, b) }
