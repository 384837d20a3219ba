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

// MaxAcceleration is the largest useful BestSpeed.Acceleration.
const MaxAcceleration = 65537

// BestSpeed is a MatchFinder with one hash table entry per bucket, the fast
// LZ4 variant.
//
// Positions in the table are offsets into the dictionary followed by the
// current block, so dictionary and block candidates never collide.
type BestSpeed struct {
	// Acceleration multiplies the distance between hash lookups while no
	// match is being found. Higher values are faster and compress less.
	// Values below 1 mean 1.
	Acceleration int

	table [maxTableSize]uint32
	dict  []byte
}

func (q *BestSpeed) Reset() {
	q.table = [maxTableSize]uint32{}
	q.dict = q.dict[:0]
}

// SetDictionary indexes the last 64 KiB of dict as history for the next
// FindMatches call.
func (q *BestSpeed) SetDictionary(dict []byte) {
	if len(dict) > maxDistance {
		dict = dict[len(dict)-maxDistance:]
	}
	q.dict = append(q.dict[:0], dict...)
	for i := 1; i+minMatch <= len(q.dict); i++ {
		q.table[hash4(load32(q.dict, i))&tableMask] = uint32(i)
	}
}

func (q *BestSpeed) step() int {
	switch {
	case q.Acceleration < 1:
		return 1
	case q.Acceleration > MaxAcceleration:
		return MaxAcceleration
	default:
		return q.Acceleration
	}
}

// candidate reports whether the table entry e holds the first four bytes
// of src[s:] within range, and returns its position relative to src.
// Dictionary positions are negative.
func (q *BestSpeed) candidate(e int, src []byte, s int) (int, bool) {
	if e == 0 {
		return 0, false
	}
	c := e - len(q.dict)
	if c >= s || s-c > maxDistance {
		return c, false
	}
	if c >= 0 {
		return c, load32(src, c) == load32(src, s)
	}
	d := e
	return c, d+minMatch <= len(q.dict) && load32(q.dict, d) == load32(src, s)
}

// FindMatches looks for matches in src, appends them to dst, and returns dst.
func (q *BestSpeed) FindMatches(dst []press.Match, src []byte) []press.Match {
	base := len(q.dict)
	accel := q.step()

	// sLimit is when to stop looking for offset/length copies.
	sLimit := len(src) - matchFinishLimit

	// nextEmit is where in src the next literal run starts.
	nextEmit := 0

	// Without a dictionary there are no previous bytes to copy from, so
	// the first lookup is at s == 1.
	s := 1

	if s > sLimit {
		goto emitRemainder
	}

	for {
		nextHash := hash4(load32(src, s))

		// Heuristic match skipping: after 32 lookups with no match, look
		// only at every other position, then every third, and so on.
		// Acceleration scales the starting step. Finding a match resets
		// the step.
		skip := accel << 5

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
			e := int(q.table[nextHash&tableMask])
			q.table[nextHash&tableMask] = uint32(s + base)
			nextHash = hash4(load32(src, nextS))

			var ok bool
			if candidate, ok = q.candidate(e, src, s); ok {
				break
			}
		}

		// A 4-byte match has been found. src[nextEmit:s] is unmatched.
		// Matches stop short of the literals every block must end with.
		matchStart := s
		limit := src[:len(src)-lastLiterals]

		if candidate >= 0 {
			s = extendMatch(limit, candidate+minMatch, s+minMatch)
		} else {
			s = extendMatch2(q.dict, candidate+base+minMatch, limit, s+minMatch)
		}

		dst = append(dst, press.Match{
			Unmatched: matchStart - nextEmit,
			Length:    s - matchStart,
			Distance:  matchStart - candidate,
		})
		nextEmit = s
		if s >= sLimit {
			goto emitRemainder
		}

		// Index s-1 before continuing at s.
		q.table[hash4(load32(src, s-1))&tableMask] = uint32(s - 1 + base)
	}

emitRemainder:
	if nextEmit < len(src) {
		dst = append(dst, press.Match{
			Unmatched: len(src) - nextEmit,
		})
	}
	return dst
}
