//go:build (amd64 || 386 || arm || mips || mipsle || wasm) && !qlock_disable_padding && !qlock_enable_padding

package opt

// WordPad_ fills the rest of the cache line holding a 4-byte lock word.
// Padding is disabled by default for:
// - amd64
// - 32-bit architectures (386, arm, mips, mipsle, wasm)
type WordPad_ struct{}
