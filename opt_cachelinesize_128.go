//go:build chainmap_opt_cachelinesize_128

package chainmap

// CacheLineSize is used in structure padding to prevent false sharing.
const CacheLineSize = 128
