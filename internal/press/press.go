// Package press splits LZ77 compression into a match-finding stage and an
// encoding stage, so block formats can share match finders.
package press

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// SetDictionary makes dict available as history for the next call to
	// FindMatches. A nil dict leaves the finder with no history.
	SetDictionary(dict []byte)

	// Reset clears any internal state, so the next block is compressed
	// without reference to earlier ones.
	Reset()
}

// An Encoder writes matches in a block format.
type Encoder interface {
	// Encode appends the encoded form of src to dst, using the match
	// information from matches.
	Encode(dst []byte, src []byte, matches []Match) []byte
}
