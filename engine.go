package lz4frame

import (
	"github.com/go-faster/errors"
	"github.com/pierrec/lz4/v4"

	"github.com/andybalholm/lz4frame/internal/lz4block"
)

const (
	// LevelHCMin is the lowest level that selects the high-compression
	// variant. Lower levels, including negative ones, use the fast variant.
	LevelHCMin = 3
	// LevelHCMax is the highest meaningful level; higher values are clamped.
	LevelHCMax = 12
)

// CompressBound returns the largest size an n-byte input can compress to.
func CompressBound(n int) int {
	return lz4.CompressBlockBound(n)
}

// An engine compresses single blocks. One engine is created per stream and
// reused for every block, so its tables are allocated once.
type engine struct {
	c lz4block.Compressor
}

func newEngine(level int) *engine {
	if level < LevelHCMin {
		return &engine{c: lz4block.Compressor{
			Finder: &lz4block.BestSpeed{Acceleration: acceleration(level)},
		}}
	}
	if level > LevelHCMax {
		level = LevelHCMax
	}
	return &engine{c: lz4block.Compressor{
		Finder: &lz4block.HashChain{SearchLen: searchLen(level)},
	}}
}

// acceleration maps a fast level to the match-skipping factor: 1 for
// levels 0 through LevelHCMin-1, and 1-level for negative ones.
func acceleration(level int) int {
	if level >= 0 {
		return 1
	}
	if level < 1-lz4block.MaxAcceleration {
		return lz4block.MaxAcceleration
	}
	return 1 - level
}

// searchLen maps a level in [LevelHCMin, LevelHCMax] to the number of hash
// chain entries tried per match.
func searchLen(level int) int {
	return 1 << (level - 1)
}

// reset prepares the engine for the next independent block.
func (e *engine) reset() {
	e.c.Finder.Reset()
}

// attachDictionary primes the engine with history. Frames never use one,
// so CompressBlock always passes nil.
func (e *engine) attachDictionary(dict []byte) {
	e.c.Finder.SetDictionary(dict)
}

// compress writes the compressed form of src to dst. It returns 0 if the
// result would not fit in dst.
func (e *engine) compress(dst, src []byte) int {
	return e.c.CompressBlock(dst, src)
}

// CompressAppend compresses src as a single raw LZ4 block and appends it to
// dst. Levels <= 0 use the fast compressor; positive levels use the
// high-compression one. On failure dst is returned unchanged.
func CompressAppend(dst, src []byte, level int) ([]byte, error) {
	if level > 0 && level < LevelHCMin {
		level = LevelHCMin
	}
	e := newEngine(level)
	e.reset()

	start := len(dst)
	dst = append(dst, make([]byte, CompressBound(len(src)))...)
	n := e.compress(dst[start:], src)
	if n == 0 {
		return dst[:start], errors.New("compress: output exceeds bound")
	}
	return dst[:start+n], nil
}

// DecompressExact decodes a raw LZ4 block that must decompress to exactly
// len(dst) bytes.
func DecompressExact(dst, src []byte) error {
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return errors.Wrap(err, "decode block")
	}
	if n != len(dst) {
		return errors.Errorf("decoded %d bytes, expected %d", n, len(dst))
	}
	return nil
}
