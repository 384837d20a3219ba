package baseline

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/andybalholm/lz4frame"
)

func TestCodecs(t *testing.T) {
	data := []byte(strings.Repeat("the quick brown fox jumps over the lazy dog\n", 2000))

	codecs, err := Codecs()
	require.NoError(t, err)
	require.Len(t, codecs, 5)

	names := map[string]bool{}
	for _, c := range codecs {
		names[c.Name()] = true

		res, err := Measure(c, data)
		require.NoError(t, err, c.Name())
		require.Equal(t, c.Name(), res.Name)
		require.Equal(t, len(data), res.In)
		require.Positive(t, res.Out, c.Name())
		require.Greater(t, res.Ratio(), 5.0, c.Name())
	}
	require.Len(t, names, 5)
}

func TestFrameCodec(t *testing.T) {
	data := []byte(strings.Repeat("0123456789", 30_000))
	out, err := Frame{Label: "lz4", Opt: lz4frame.WriterOptions{BlockChecksum: true}}.Compress([]byte("x"), data)
	require.NoError(t, err)
	require.Equal(t, byte('x'), out[0])

	got, err := io.ReadAll(lz4frame.NewReader(bytes.NewReader(out[1:]), lz4frame.ReaderOptions{}))
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestResult(t *testing.T) {
	var r Result
	require.Zero(t, r.Ratio())
	require.Zero(t, r.Throughput())

	r = Result{In: 100, Out: 25, Duration: 1e9}
	require.Equal(t, 4.0, r.Ratio())
	require.Equal(t, 100.0, r.Throughput())
}
