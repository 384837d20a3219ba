package lz4frame

import (
	"io"

	"github.com/go-faster/errors"
	"go.uber.org/zap"
)

// ReaderOptions configures a Reader.
type ReaderOptions struct {
	Logger *zap.Logger

	// OnBlock is called after each block is decoded or skipped.
	OnBlock func(b BlockStat)
}

func (o *ReaderOptions) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.OnBlock == nil {
		o.OnBlock = func(BlockStat) {}
	}
}

// BlockStat describes one block of a frame.
type BlockStat struct {
	Index int
	// Size is the payload size on the wire, excluding framing.
	Size       int
	Compressed bool
	// Decompressed is the size of the block contents, or -1 if the block
	// was skipped.
	Decompressed int
}

// A Reader decompresses a single frame.
//
// Read returns io.EOF only after the frame terminator has been read and the
// content checksum, if any, has been verified.
type Reader struct {
	src     io.Reader
	ctx     *Context
	lg      *zap.Logger
	onBlock func(b BlockStat)

	data []byte // decompressed block
	pos  int
	raw  []byte // encoded block payload

	blocks int
	err    error
}

// NewReader returns a Reader that decompresses the frame read from src.
// The header is read on first use.
func NewReader(src io.Reader, opt ReaderOptions) *Reader {
	opt.setDefaults()
	return &Reader{
		src:     src,
		lg:      opt.Logger,
		onBlock: opt.OnBlock,
	}
}

// readFull is io.ReadFull that reports a clean EOF as truncation: once a
// frame has started, running out of input is always an error.
func (r *Reader) readFull(p []byte) error {
	if _, err := io.ReadFull(r.src, p); err != nil {
		if err == io.EOF {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}

// init reads the header on first use. A failure is kept in r.err, so the
// header is never read twice.
func (r *Reader) init() error {
	if r.err != nil {
		return r.err
	}
	if r.ctx != nil {
		return nil
	}
	var h Header
	if err := r.readFull(h[:]); err != nil {
		r.err = errors.Wrap(err, "read header")
		return r.err
	}
	ctx, err := NewDecompressor(h[:])
	if err != nil {
		r.err = err
		return err
	}
	r.ctx = ctx
	r.data = make([]byte, 0, ctx.BlockCapacity())
	r.raw = make([]byte, 0, ctx.Info().CompressBound+4)

	info := ctx.Info()
	r.lg.Debug("Frame header read",
		zap.Stringer("block_size", info.Size),
		zap.Bool("block_checksum", info.BlockChecksum),
		zap.Bool("content_checksum", info.ContentChecksum),
	)
	return nil
}

// Info returns the description of the frame header, reading it if needed.
func (r *Reader) Info() (Info, error) {
	if r.ctx == nil {
		if err := r.init(); err != nil {
			return Info{}, err
		}
	}
	return r.ctx.Info(), nil
}

// next reads the next block into r.raw. It returns io.EOF after handling
// the frame terminator.
func (r *Reader) next() (compressed bool, err error) {
	if err := r.init(); err != nil {
		return false, err
	}

	var field [4]byte
	if err := r.readFull(field[:]); err != nil {
		return false, errors.Wrapf(err, "block %d: read length", r.blocks)
	}
	size, compressed, end := BlockLength(bin.Uint32(field[:]))
	if end {
		return false, r.finish()
	}

	info := r.ctx.Info()
	limit := info.BlockCapacity
	if compressed {
		limit = info.CompressBound
	}
	if size > limit {
		return false, errors.Wrapf(ErrCorrupt, "block %d: length %d exceeds %d", r.blocks, size, limit)
	}
	if info.BlockChecksum {
		size += 4
	}

	r.raw = r.raw[:size]
	if err := r.readFull(r.raw); err != nil {
		return false, errors.Wrapf(err, "block %d: read payload", r.blocks)
	}
	return compressed, nil
}

func (r *Reader) finish() error {
	var trailer [TrailerSize]byte
	if r.ctx.Info().ContentChecksum {
		if err := r.readFull(trailer[:]); err != nil {
			return errors.Wrap(err, "read content checksum")
		}
	}
	if _, err := r.ctx.Finish(trailer[:]); err != nil {
		return err
	}
	r.lg.Debug("Frame finished", zap.Int("blocks", r.blocks))
	return io.EOF
}

// readBlock reads and decompresses the next block into data.
func (r *Reader) readBlock() error {
	r.pos = 0
	r.data = r.data[:0]

	compressed, err := r.next()
	if err != nil {
		return err
	}
	n, err := r.ctx.Decompress(r.data[:cap(r.data)], r.raw, compressed)
	if err != nil {
		return errors.Wrapf(err, "block %d", r.blocks)
	}
	r.data = r.data[:n]
	r.done(compressed, n)
	return nil
}

func (r *Reader) done(compressed bool, n int) {
	size := len(r.raw)
	if r.ctx.Info().BlockChecksum {
		size -= 4
	}
	r.onBlock(BlockStat{
		Index:        r.blocks,
		Size:         size,
		Compressed:   compressed,
		Decompressed: n,
	})
	r.blocks++
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	for r.pos >= len(r.data) {
		if err := r.readBlock(); err != nil {
			r.err = err
			return 0, err
		}
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// SkipBlock discards any unread output of the current block and then
// validates and drops the next block. It returns io.EOF at the end of the
// frame.
func (r *Reader) SkipBlock() error {
	if r.err != nil {
		return r.err
	}
	r.pos = len(r.data)

	compressed, err := r.next()
	if err == nil {
		err = r.ctx.Skip(r.data[:cap(r.data)], r.raw, compressed)
		if err != nil {
			err = errors.Wrapf(err, "block %d", r.blocks)
		}
	}
	if err != nil {
		r.err = err
		return err
	}
	r.done(compressed, -1)
	return nil
}

// Close releases the decompression context. It does not close the
// underlying reader.
func (r *Reader) Close() error {
	r.err = ErrClosed
	if r.ctx == nil {
		return nil
	}
	return r.ctx.Close()
}
