//go:build qlock_cachelinesize_64 && !qlock_cachelinesize_128

package opt

// CacheLineSize_ is forced to 64 bytes via the qlock_cachelinesize_64 build tag.
// Use: go build -tags=qlock_cachelinesize_64
const CacheLineSize_ uintptr = 64
