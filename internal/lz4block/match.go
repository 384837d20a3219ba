package lz4block

import (
	"encoding/binary"
	"math/bits"
	"runtime"
)

const (
	maxTableSize = 1 << 14
	shift        = 32 - 14
	// tableMask is redundant, but helps the compiler eliminate bounds
	// checks.
	tableMask = maxTableSize - 1

	// maxDistance is the largest offset a 16-bit LZ4 match can hold.
	maxDistance = 65535

	// minMatch is the shortest match LZ4 can encode.
	minMatch = 4

	// Blocks must end with at least lastLiterals literal bytes, and the
	// last match must start at least matchFinishLimit bytes before the end.
	lastLiterals     = 5
	matchFinishLimit = 12
)

const hashMul32 = 0x1e35a7bd

func hash4(u uint32) uint32 {
	return (u * hashMul32) >> shift
}

func load32(b []byte, i int) uint32 {
	return binary.LittleEndian.Uint32(b[i:])
}

// extendMatch returns the largest k such that k <= len(src) and that
// src[i:i+k-j] and src[j:k] have the same contents.
//
// It assumes that:
//
//	0 <= i && i < j && j <= len(src)
func extendMatch(src []byte, i, j int) int {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		for j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(src[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				// The lowest differing bit is in the first differing byte.
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	case "386":
		for j+4 < len(src) {
			iBytes := binary.LittleEndian.Uint32(src[i:])
			jBytes := binary.LittleEndian.Uint32(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros32(iBytes^jBytes)>>3
			}
			i, j = i+4, j+4
		}
	}
	for ; j < len(src) && src[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}

// extendMatch2 returns the largest k such that dict[i:i+k-j] and src[j:k]
// have the same contents (and all these indexes are valid).
func extendMatch2(dict []byte, i int, src []byte, j int) int {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		for i+8 < len(dict) && j+8 < len(src) {
			iBytes := binary.LittleEndian.Uint64(dict[i:])
			jBytes := binary.LittleEndian.Uint64(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros64(iBytes^jBytes)>>3
			}
			i, j = i+8, j+8
		}
	case "386":
		for i+4 < len(dict) && j+4 < len(src) {
			iBytes := binary.LittleEndian.Uint32(dict[i:])
			jBytes := binary.LittleEndian.Uint32(src[j:])
			if iBytes != jBytes {
				return j + bits.TrailingZeros32(iBytes^jBytes)>>3
			}
			i, j = i+4, j+4
		}
	}
	for ; i < len(dict) && j < len(src) && dict[i] == src[j]; i, j = i+1, j+1 {
	}
	return j
}
