//go:build qlock_cachelinesize_128

package opt

// CacheLineSize_ is forced to 128 bytes via the qlock_cachelinesize_128 build tag.
// Use: go build -tags=qlock_cachelinesize_128
const CacheLineSize_ uintptr = 128
