//go:build !(amd64 || 386 || arm || mips || mipsle || wasm) && !qlock_disable_padding && !qlock_enable_padding

package opt

import (
	"unsafe"
)

// WordPad_ fills the rest of the cache line holding a 4-byte lock word,
// so the hot word and the wait-queue counters that follow it do not share
// a line.
// Padding is automatically enabled for architectures that are NOT:
// - amd64 (x86_64): Hardware optimizations often make padding less critical
// - 32-bit architectures (386, arm, mips, mipsle, wasm): Smaller cache lines/memory constraints
//
// Enabled for: arm64, s390x, ppc64, ppc64le, riscv64, loong64, mips64, mips64le, etc.
type WordPad_ struct {
	_ [(CacheLineSize_ - unsafe.Sizeof(struct {
		w uint32
	}{})%CacheLineSize_) % CacheLineSize_]byte
}
