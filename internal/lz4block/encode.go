// Package lz4block writes the LZ4 block format from LZ77 matches.
package lz4block

import (
	"encoding/binary"

	"github.com/andybalholm/lz4frame/internal/press"
)

// An Encoder implements the press.Encoder interface, writing in the LZ4
// block format.
type Encoder struct{}

var (
	_ press.Encoder     = Encoder{}
	_ press.MatchFinder = (*BestSpeed)(nil)
	_ press.MatchFinder = (*HashChain)(nil)
)

func (Encoder) Encode(dst []byte, src []byte, matches []press.Match) []byte {
	// Ensure that the block ends with at least 5 literal bytes,
	// and the last match is at least 12 bytes before the end of the block.
	trailingLiterals := 0
	for len(matches) > 0 && (trailingLiterals < lastLiterals || trailingLiterals+matches[len(matches)-1].Length < matchFinishLimit) {
		lastMatch := matches[len(matches)-1]
		matches = matches[:len(matches)-1]
		trailingLiterals += lastMatch.Unmatched + lastMatch.Length
	}

	pos := 0
	for _, m := range matches {
		token := byte(0)
		if m.Unmatched > 14 {
			token |= 0xf0
		} else {
			token |= byte(m.Unmatched << 4)
		}
		if m.Length > 18 {
			token |= 0x0f
		} else {
			token |= byte(m.Length - minMatch)
		}
		dst = append(dst, token)

		if m.Unmatched > 14 {
			dst = appendInt(dst, m.Unmatched-15)
		}
		dst = append(dst, src[pos:pos+m.Unmatched]...)

		dst = binary.LittleEndian.AppendUint16(dst, uint16(m.Distance))
		if m.Length > 18 {
			dst = appendInt(dst, m.Length-19)
		}

		pos += m.Unmatched + m.Length
	}

	// Write the final, literals-only sequence.
	token := byte(0)
	if trailingLiterals > 14 {
		token |= 0xf0
	} else {
		token |= byte(trailingLiterals << 4)
	}
	dst = append(dst, token)
	if trailingLiterals > 14 {
		dst = appendInt(dst, trailingLiterals-15)
	}
	dst = append(dst, src[pos:]...)

	return dst
}

// appendInt appends n to dst in LZ4's variable-length integer format.
func appendInt(dst []byte, n int) []byte {
	for n >= 255 {
		dst = append(dst, 255)
		n -= 255
	}
	dst = append(dst, byte(n))
	return dst
}

// A Compressor compresses blocks with a MatchFinder. It keeps its match
// buffer between calls.
type Compressor struct {
	Finder press.MatchFinder

	matches []press.Match
}

// CompressBlock compresses src into dst and returns the compressed size,
// or 0 if the result does not fit in dst. Bytes of dst past the returned
// size may have been overwritten.
func (c *Compressor) CompressBlock(dst, src []byte) int {
	c.matches = c.Finder.FindMatches(c.matches[:0], src)
	out := Encoder{}.Encode(dst[:0:len(dst)], src, c.matches)
	if len(out) > len(dst) {
		return 0
	}
	return len(out)
}
