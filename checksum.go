package lz4frame

import (
	"encoding/binary"
	"hash"

	"github.com/pierrec/xxHash/xxHash32"
	"github.com/pierrec/xxHash/xxHash64"
)

var bin = binary.LittleEndian

// checksum is the one-shot block checksum.
func checksum(b []byte) uint32 {
	return xxHash32.Checksum(b, 0)
}

// contentHash is the running content checksum. The zero value is
// disabled and ignores updates.
type contentHash struct {
	h hash.Hash32
}

func newContentHash(enabled bool) contentHash {
	if !enabled {
		return contentHash{}
	}
	return contentHash{h: xxHash32.New(0)}
}

func (c contentHash) enabled() bool { return c.h != nil }

func (c contentHash) reset() {
	if c.h != nil {
		c.h.Reset()
	}
}

func (c contentHash) update(b []byte) {
	if c.h != nil {
		_, _ = c.h.Write(b)
	}
}

func (c contentHash) sum() uint32 {
	if c.h == nil {
		return 0
	}
	return c.h.Sum32()
}

// Hash64 returns the 64-bit xxHash of b with seed 0.
func Hash64(b []byte) uint64 {
	return xxHash64.Checksum(b, 0)
}
