//go:build chainmap_opt_enablepadding

package chainmap

// bucketPad prefixes every bucket with a full cache line so that
// neighbouring bucket locks never share one. This mitigates false
// sharing under heavy write contention, at the cost of CacheLineSize
// bytes per slot. By default, it is turned off.
type bucketPad [CacheLineSize]byte
