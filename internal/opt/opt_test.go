package opt

import (
	"testing"
	"unsafe"
)

func TestCacheLineSize(t *testing.T) {
	if CacheLineSize_ == 0 || CacheLineSize_&(CacheLineSize_-1) != 0 {
		t.Fatalf("CacheLineSize_ = %d, want a power of two", CacheLineSize_)
	}
}

func TestWordPadSize(t *testing.T) {
	sz := unsafe.Sizeof(WordPad_{})
	if sz == 0 {
		return // padding disabled on this arch
	}
	if (4+sz)%CacheLineSize_ != 0 {
		t.Fatalf("WordPad_ size = %d does not pad a 4-byte word to a line multiple (line = %d)",
			sz, CacheLineSize_)
	}
}
