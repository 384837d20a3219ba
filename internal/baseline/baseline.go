// Package baseline measures lz4frame against other general purpose codecs.
package baseline

import (
	"bytes"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/go-faster/errors"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/andybalholm/lz4frame"
)

// A Codec compresses a whole buffer at once.
type Codec interface {
	Name() string
	// Compress appends the compressed form of src to dst.
	Compress(dst, src []byte) ([]byte, error)
}

// Frame is an lz4frame codec.
type Frame struct {
	Label string
	Opt   lz4frame.WriterOptions
}

func (f Frame) Name() string { return f.Label }

func (f Frame) Compress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	w, err := lz4frame.NewWriter(buf, f.Opt)
	if err != nil {
		return dst, err
	}
	if _, err := w.Write(src); err != nil {
		return dst, errors.Wrap(err, "write")
	}
	if err := w.Close(); err != nil {
		return dst, errors.Wrap(err, "close")
	}
	return buf.Bytes(), nil
}

type snappyCodec struct{}

func (snappyCodec) Name() string { return "snappy" }

func (snappyCodec) Compress(dst, src []byte) ([]byte, error) {
	out := snappy.Encode(nil, src)
	return append(dst, out...), nil
}

type zstdCodec struct {
	enc *zstd.Encoder
}

func (zstdCodec) Name() string { return "zstd" }

func (z zstdCodec) Compress(dst, src []byte) ([]byte, error) {
	return z.enc.EncodeAll(src, dst), nil
}

type brotliCodec struct {
	level int
}

func (brotliCodec) Name() string { return "brotli" }

func (b brotliCodec) Compress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	w := brotli.NewWriterLevel(buf, b.level)
	if _, err := w.Write(src); err != nil {
		return dst, errors.Wrap(err, "write")
	}
	if err := w.Close(); err != nil {
		return dst, errors.Wrap(err, "close")
	}
	return buf.Bytes(), nil
}

// Codecs returns the fast and high-compression lz4frame codecs followed by
// snappy, zstd and brotli at their default levels.
func Codecs() ([]Codec, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, errors.Wrap(err, "zstd")
	}
	return []Codec{
		Frame{Label: "lz4frame-fast"},
		Frame{Label: "lz4frame-hc", Opt: lz4frame.WriterOptions{Level: 9}},
		snappyCodec{},
		zstdCodec{enc: enc},
		brotliCodec{level: brotli.DefaultCompression},
	}, nil
}

// Result of one Measure call.
type Result struct {
	Name     string
	In       int
	Out      int
	Duration time.Duration
}

// Ratio is In/Out.
func (r Result) Ratio() float64 {
	if r.Out == 0 {
		return 0
	}
	return float64(r.In) / float64(r.Out)
}

// Throughput is input bytes per second.
func (r Result) Throughput() float64 {
	if r.Duration <= 0 {
		return 0
	}
	return float64(r.In) / r.Duration.Seconds()
}

// Measure compresses data once with c.
func Measure(c Codec, data []byte) (Result, error) {
	start := time.Now()
	out, err := c.Compress(nil, data)
	if err != nil {
		return Result{}, errors.Wrap(err, c.Name())
	}
	return Result{
		Name:     c.Name(),
		In:       len(data),
		Out:      len(out),
		Duration: time.Since(start),
	}, nil
}
