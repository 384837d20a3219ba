package lz4frame

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andybalholm/lz4frame/internal/lz4block"
)

func TestCompressAppend(t *testing.T) {
	data := textData(100_000, 30)
	for _, level := range []int{-5, 0, 9, 100} {
		prefix := []byte("prefix")
		out, err := CompressAppend(prefix, data, level)
		require.NoError(t, err, level)
		require.Equal(t, "prefix", string(out[:6]))
		require.Less(t, len(out)-6, len(data)/2, level)

		dst := make([]byte, len(data))
		require.NoError(t, DecompressExact(dst, out[6:]))
		require.Equal(t, data, dst)
	}
}

func TestCompressAppendIncompressible(t *testing.T) {
	data := randomData(t, 10_000)
	out, err := CompressAppend(nil, data, 0)
	require.NoError(t, err)
	require.LessOrEqual(t, len(out), CompressBound(len(data)))

	dst := make([]byte, len(data))
	require.NoError(t, DecompressExact(dst, out))
	require.Equal(t, data, dst)
}

func TestDecompressExact(t *testing.T) {
	data := textData(5000, 31)
	block, err := CompressAppend(nil, data, 0)
	require.NoError(t, err)

	require.Error(t, DecompressExact(make([]byte, len(data)+1), block))
	require.Error(t, DecompressExact(make([]byte, len(data)-1), block))
	require.Error(t, DecompressExact(make([]byte, len(data)), block[:len(block)/2]))
}

func TestAcceleration(t *testing.T) {
	// Text interleaved with noise, so lookups miss often.
	var data []byte
	noise := randomData(t, 16*1024)
	text := textData(48*1024, 32)
	for i := 0; i < 1024; i++ {
		data = append(data, noise[i*16:(i+1)*16]...)
		data = append(data, text[i*48:(i+1)*48]...)
	}

	outputs := map[int][]byte{}
	for _, level := range []int{-20, -5, 0, 2} {
		out, err := CompressAppend(nil, data, level)
		require.NoError(t, err, level)
		outputs[level] = out

		dst := make([]byte, len(data))
		require.NoError(t, DecompressExact(dst, out), level)
		require.Equal(t, data, dst, level)
	}

	// Levels 0 through LevelHCMin-1 share acceleration 1.
	require.Equal(t, outputs[0], outputs[2])
	// Skipping more positions finds fewer matches.
	require.Greater(t, len(outputs[-20]), len(outputs[0]))
}

func TestAccelerationClamp(t *testing.T) {
	require.Equal(t, 1, acceleration(0))
	require.Equal(t, 1, acceleration(LevelHCMin-1))
	require.Equal(t, 2, acceleration(-1))
	require.Equal(t, lz4block.MaxAcceleration, acceleration(-1<<30))
	require.Equal(t, 4, searchLen(LevelHCMin))
	require.Equal(t, 2048, searchLen(LevelHCMax))
}

func TestEngineReset(t *testing.T) {
	// Two blocks compressed by one engine decode independently.
	e := newEngine(LevelHCMin)
	a := textData(20_000, 33)
	b := append(append([]byte(nil), a[:10_000]...), textData(10_000, 34)...)
	for _, in := range [][]byte{a, b} {
		e.reset()
		e.attachDictionary(nil)
		dst := make([]byte, CompressBound(len(in)))
		n := e.compress(dst, in)
		require.NotZero(t, n)

		out := make([]byte, len(in))
		require.NoError(t, DecompressExact(out, dst[:n]))
		require.Equal(t, in, out)
	}
}

func TestHash64(t *testing.T) {
	require.Equal(t, uint64(0xef46db3751d8e999), Hash64(nil))
	require.NotEqual(t, Hash64([]byte("a")), Hash64([]byte("b")))
}
