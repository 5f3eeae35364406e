// Package hashfunc collects classic multiplicative and shift-xor string
// hash functions. They are small and fast but not collision resistant;
// chainmap's own hashers are better defaults. Use String to plug one of
// them into a chainmap table.
//
// All functions treat input bytes as unsigned and wrap around in 64 bits.
package hashfunc

import (
	"bytes"
	"slices"

	"github.com/llxisdsh/chainmap"
)

// Func maps a byte string to a hash value. Implementations are pure.
type Func func(b []byte) uint64

// Simple11 computes h = h*11 + c.
func Simple11(b []byte) uint64 {
	var h uint64
	for _, c := range b {
		h += (h << 3) + (h << 1) + uint64(c)
	}
	return h
}

// Simple31 computes h = h*31 + c, the Java String.hashCode recurrence.
func Simple31(b []byte) uint64 {
	var h uint64
	for _, c := range b {
		h = (h << 5) - h + uint64(c)
	}
	return h
}

// DJB is Daniel J. Bernstein's h = h*33 + c, seeded with 5381.
func DJB(b []byte) uint64 {
	h := uint64(5381)
	for _, c := range b {
		h += (h << 5) + uint64(c)
	}
	return h
}

// SDBM is the hash used by the sdbm database library.
func SDBM(b []byte) uint64 {
	var h uint64
	for _, c := range b {
		h = uint64(c) + (h << 6) + (h << 16) - h
	}
	return h
}

// DEK is the rotate-xor hash from Knuth, TAOCP vol. 3, seeded with the
// input length.
func DEK(b []byte) uint64 {
	h := uint64(len(b))
	for _, c := range b {
		h = (h << 5) ^ (h >> 27) ^ uint64(c)
	}
	return h
}

// BP shifts by 7 and xors in each byte.
func BP(b []byte) uint64 {
	var h uint64
	for _, c := range b {
		h = h<<7 ^ uint64(c)
	}
	return h
}

// PJW is Peter J. Weinberger's ELF-style hash.
func PJW(b []byte) uint64 {
	var h uint64
	for _, c := range b {
		h = (h << 4) + uint64(c)
		if g := h & 0xf0000000; g != 0 {
			h ^= g >> 24
			h ^= g
		}
	}
	return h
}

var registry = map[string]Func{
	"simple11": Simple11,
	"simple31": Simple31,
	"djb":      DJB,
	"sdbm":     SDBM,
	"dek":      DEK,
	"bp":       BP,
	"pjw":      PJW,
}

// ByName returns the function registered under name, e.g. "djb".
func ByName(name string) (Func, bool) {
	fn, ok := registry[name]
	return fn, ok
}

// Names returns the registered function names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// String adapts fn into a hasher for string keys.
func String(fn Func) chainmap.Hasher[string] {
	return chainmap.HashFunc[string]{
		HashFn:  func(key string) uint64 { return fn([]byte(key)) },
		EqualFn: func(a, b string) bool { return a == b },
	}
}

// Bytes adapts fn into a hasher for byte slice keys.
func Bytes(fn Func) chainmap.Hasher[[]byte] {
	return chainmap.HashFunc[[]byte]{
		HashFn:  func(key []byte) uint64 { return fn(key) },
		EqualFn: bytes.Equal,
	}
}
