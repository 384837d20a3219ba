package lz4block

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/pierrec/lz4/v4"

	"github.com/andybalholm/lz4frame/internal/press"
)

func testText(n int, seed int64) []byte {
	words := []string{"match ", "finder ", "hash ", "chain ", "literal ", "offset\n", "a ", "of "}
	r := rand.New(rand.NewSource(seed))
	var b bytes.Buffer
	for b.Len() < n {
		b.WriteString(words[r.Intn(len(words))])
	}
	return b.Bytes()[:n]
}

func testNoise(n int, seed int64) []byte {
	b := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(b)
	return b
}

func finders() map[string]func() press.MatchFinder {
	return map[string]func() press.MatchFinder{
		"BestSpeed":        func() press.MatchFinder { return new(BestSpeed) },
		"BestSpeedAccel8":  func() press.MatchFinder { return &BestSpeed{Acceleration: 8} },
		"HashChain":        func() press.MatchFinder { return &HashChain{SearchLen: 16} },
		"HashChainNoChain": func() press.MatchFinder { return new(HashChain) },
	}
}

func compress(mf press.MatchFinder, src []byte) []byte {
	matches := mf.FindMatches(nil, src)
	return Encoder{}.Encode(nil, src, matches)
}

func checkDecode(t *testing.T, compressed, want, dict []byte) {
	t.Helper()
	decompressed := make([]byte, len(want))
	var (
		n   int
		err error
	)
	if dict == nil {
		n, err = lz4.UncompressBlock(compressed, decompressed)
	} else {
		n, err = lz4.UncompressBlockWithDict(compressed, decompressed, dict)
	}
	if err != nil {
		t.Fatal(err)
	}
	if n != len(want) {
		t.Fatalf("Got %d bytes, wanted %d", n, len(want))
	}
	if !bytes.Equal(decompressed, want) {
		t.Fatal("Decompressed output does not match")
	}
}

func TestBlockEncode(t *testing.T) {
	inputs := map[string][]byte{
		"empty": {},
		"short": []byte("abc"),
		"13":    []byte("abcdabcdabcda"),
		"zeros": make([]byte, 10000),
		"text":  testText(200_000, 1),
		"noise": testNoise(5000, 2),
		"mixed": append(testText(30_000, 3), append(testNoise(1000, 4), testText(30_000, 3)...)...),
	}
	for name, newFinder := range finders() {
		for input, data := range inputs {
			mf := newFinder()
			compressed := compress(mf, data)
			if len(compressed) > lz4.CompressBlockBound(len(data)) {
				t.Fatalf("%s/%s: %d bytes exceeds bound", name, input, len(compressed))
			}
			if len(data) > 0 {
				checkDecode(t, compressed, data, nil)
			}
		}
	}
}

func TestTrailingLiterals(t *testing.T) {
	// A run to the end of the block still leaves room for the final literals.
	data := bytes.Repeat([]byte{'a'}, 1000)
	for name, newFinder := range finders() {
		compressed := compress(newFinder(), data)
		if len(compressed) > 30 {
			t.Fatalf("%s: %d bytes for a run of 1000", name, len(compressed))
		}
		checkDecode(t, compressed, data, nil)
	}
}

func TestReset(t *testing.T) {
	a := testText(50_000, 5)
	b := append(append([]byte(nil), a[25_000:]...), testText(25_000, 6)...)
	for name, newFinder := range finders() {
		mf := newFinder()
		compress(mf, a)

		// Without Reset, stale state must still yield valid output.
		checkDecode(t, compress(mf, b), b, nil)

		mf.Reset()
		if got, want := compress(mf, b), compress(newFinder(), b); !bytes.Equal(got, want) {
			t.Fatalf("%s: output after Reset differs from a fresh finder", name)
		}
	}
}

func TestDictionary(t *testing.T) {
	// Noise only compresses by reference to the dictionary.
	dict := testNoise(40_000, 7)
	data := append(append([]byte(nil), dict[10_000:20_000]...), testText(5000, 8)...)
	for name, newFinder := range finders() {
		plain := compress(newFinder(), data)

		mf := newFinder()
		mf.SetDictionary(dict)
		withDict := compress(mf, data)
		checkDecode(t, withDict, data, dict)
		if len(withDict) >= len(plain) {
			t.Fatalf("%s: dictionary did not help: %d >= %d", name, len(withDict), len(plain))
		}

		// A nil dictionary after Reset is the same as none.
		mf.Reset()
		mf.SetDictionary(nil)
		if !bytes.Equal(compress(mf, data), plain) {
			t.Fatalf("%s: nil dictionary changed the output", name)
		}
	}
}

func TestSearchLen(t *testing.T) {
	data := testText(100_000, 9)
	fast := compress(new(BestSpeed), data)
	deep := compress(&HashChain{SearchLen: 256}, data)
	checkDecode(t, deep, data, nil)
	if len(deep) >= len(fast) {
		t.Fatalf("HashChain output %d not smaller than BestSpeed %d", len(deep), len(fast))
	}
}

func TestCompressor(t *testing.T) {
	data := testText(10_000, 10)
	c := Compressor{Finder: new(BestSpeed)}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	n := c.CompressBlock(dst, data)
	if n == 0 {
		t.Fatal("no output")
	}
	checkDecode(t, dst[:n], data, nil)

	// Too small: nothing is written past len(dst).
	buf := make([]byte, 64)
	small := buf[:10]
	c.Finder.Reset()
	if n := c.CompressBlock(small, data); n != 0 {
		t.Fatalf("Got %d, wanted 0", n)
	}
	for i, b := range buf[10:] {
		if b != 0 {
			t.Fatalf("byte %d past dst was written", 10+i)
		}
	}
}

func BenchmarkBestSpeed(b *testing.B) {
	data := testText(1<<20, 11)
	var c Compressor
	c.Finder = new(BestSpeed)
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Finder.Reset()
		c.CompressBlock(dst, data)
	}
}

func BenchmarkHashChain(b *testing.B) {
	data := testText(1<<20, 11)
	var c Compressor
	c.Finder = &HashChain{SearchLen: 16}
	dst := make([]byte, lz4.CompressBlockBound(len(data)))
	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		c.Finder.Reset()
		c.CompressBlock(dst, data)
	}
}
