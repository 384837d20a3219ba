package lz4block

import (
	"github.com/andybalholm/lz4frame/internal/press"
)

// This file is based on code from github.com/golang/snappy.

//Copyright (c) 2011 The Snappy-Go Authors. All rights reserved.
//
//Redistribution and use in source and binary forms, with or without
//modification, are permitted provided that the following conditions are
//met:
//
//   * Redistributions of source code must retain the above copyright
//notice, this list of conditions and the following disclaimer.
//   * Redistributions in binary form must reproduce the above
//copyright notice, this list of conditions and the following disclaimer
//in the documentation and/or other materials provided with the
//distribution.
//   * Neither the name of Google Inc. nor the names of its
//contributors may be used to endorse or promote products derived from
//this software without specific prior written permission.
//
//THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
//"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
//LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
//A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
//OWNER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
//SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
//LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
//DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
//THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
//(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
//OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

// HashChain is a MatchFinder that follows hash chains to find longer
// matches, the high-compression LZ4 variant.
type HashChain struct {
	// SearchLen is how many earlier positions with the same hash are
	// tried for each match.
	SearchLen int

	table [maxTableSize]uint32
	dict  []byte

	// chain[p] is the distance from position p of the dictionary followed
	// by the block to the previous position with the same hash, or 0.
	chain []uint16
}

func (q *HashChain) Reset() {
	q.table = [maxTableSize]uint32{}
	q.dict = q.dict[:0]
	q.chain = q.chain[:0]
}

// SetDictionary indexes the last 64 KiB of dict as history for the next
// FindMatches call.
func (q *HashChain) SetDictionary(dict []byte) {
	if len(dict) > maxDistance {
		dict = dict[len(dict)-maxDistance:]
	}
	q.dict = append(q.dict[:0], dict...)
	q.chain = q.chain[:0]
	q.resize(len(q.dict))
	for i := 1; i+minMatch <= len(q.dict); i++ {
		q.insert(i, hash4(load32(q.dict, i)))
	}
}

// resize sets len(chain) to n, keeping the dictionary part and zeroing the
// rest.
func (q *HashChain) resize(n int) {
	keep := len(q.dict)
	if keep > len(q.chain) {
		keep = len(q.chain)
	}
	if cap(q.chain) < n {
		c := make([]uint16, n)
		copy(c, q.chain[:keep])
		q.chain = c
		return
	}
	q.chain = q.chain[:n]
	for i := keep; i < n; i++ {
		q.chain[i] = 0
	}
}

// insert records pos under hash h and returns the position it displaced.
func (q *HashChain) insert(pos int, h uint32) int {
	prev := int(q.table[h&tableMask])
	q.table[h&tableMask] = uint32(pos)
	if prev != 0 && prev < pos && pos-prev <= maxDistance {
		q.chain[pos] = uint16(pos - prev)
	}
	return prev
}

// extend returns the end of the match between src[start:] and candidate c,
// which is relative to src and negative for dictionary positions.
func (q *HashChain) extend(src []byte, c, start int) int {
	if c >= 0 {
		return extendMatch(src, c, start)
	}
	return extendMatch2(q.dict, c+len(q.dict), src, start)
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *HashChain) FindMatches(dst []press.Match, src []byte) []press.Match {
	base := len(q.dict)
	q.resize(base + len(src))

	// sLimit is when to stop looking for offset/length copies.
	sLimit := len(src) - matchFinishLimit

	// nextEmit is where in src the next literal run starts.
	nextEmit := 0

	s := 1

	if s > sLimit {
		goto emitRemainder
	}

	for {
		nextHash := hash4(load32(src, s))

		// Same lookup skipping as BestSpeed, without acceleration.
		skip := 32

		nextS := s
		candidate := 0
		for {
			s = nextS
			bytesBetweenHashLookups := skip >> 5
			nextS = s + bytesBetweenHashLookups
			skip += bytesBetweenHashLookups
			if nextS > sLimit {
				goto emitRemainder
			}
			prev := q.insert(s+base, nextHash)
			nextHash = hash4(load32(src, nextS))
			if prev == 0 {
				continue
			}

			candidate = prev - base
			if candidate >= s || s-candidate > maxDistance {
				continue
			}
			if candidate >= 0 {
				if load32(src, candidate) == load32(src, s) {
					break
				}
			} else if prev+minMatch <= base && load32(q.dict, prev) == load32(src, s) {
				break
			}
		}

		// A 4-byte match has been found. src[nextEmit:s] is unmatched.
		// Matches stop short of the literals every block must end with.
		matchStart := s
		limit := src[:len(src)-lastLiterals]
		s = q.extend(limit, candidate, matchStart)
		match := candidate

		// Follow the chain to see if we can find a longer match.
		for i := 0; i < q.SearchLen; i++ {
			d := int(q.chain[candidate+base])
			if d == 0 {
				break
			}
			candidate -= d
			if matchStart-candidate > maxDistance {
				break
			}
			if newS := q.extend(limit, candidate, matchStart); newS > s {
				s, match = newS, candidate
			}
		}

		dst = append(dst, press.Match{
			Unmatched: matchStart - nextEmit,
			Length:    s - matchStart,
			Distance:  matchStart - match,
		})
		nextEmit = s
		if s >= sLimit {
			goto emitRemainder
		}

		// Index the matched bytes so later matches can chain through them.
		for i := matchStart + 1; i < s; i++ {
			q.insert(i+base, hash4(load32(src, i)))
		}
	}

emitRemainder:
	if nextEmit < len(src) {
		dst = append(dst, press.Match{
			Unmatched: len(src) - nextEmit,
		})
	}
	return dst
}
