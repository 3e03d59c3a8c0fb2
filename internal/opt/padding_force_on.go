//go:build qlock_enable_padding

package opt

import (
	"unsafe"
)

// WordPad_ fills the rest of the cache line holding a 4-byte lock word.
// Padding is force-enabled via the qlock_enable_padding build tag.
// Use: go build -tags=qlock_enable_padding
type WordPad_ struct {
	_ [(CacheLineSize_ - unsafe.Sizeof(struct {
		w uint32
	}{})%CacheLineSize_) % CacheLineSize_]byte
}
