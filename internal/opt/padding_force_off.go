//go:build qlock_disable_padding

package opt

// WordPad_ fills the rest of the cache line holding a 4-byte lock word.
// Padding is force-disabled via the qlock_disable_padding build tag.
// Use: go build -tags=qlock_disable_padding
type WordPad_ struct{}
