package lz4frame

import (
	"io"

	"github.com/go-faster/errors"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// WriterOptions configures a Writer.
type WriterOptions struct {
	Logger *zap.Logger

	// Size is the block size. The default is Block64KB.
	Size  BlockSize
	Level int

	BlockChecksum bool
	// NoContentChecksum disables the content checksum, which is on by
	// default.
	NoContentChecksum bool
}

func (o *WriterOptions) setDefaults() {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// A Writer compresses data written to it into a single frame.
//
// Data is buffered until a full block is available, so the frame is not
// complete until Close is called.
type Writer struct {
	dst io.Writer
	ctx *Context
	lg  *zap.Logger

	buf []byte // pending input, cap is the block capacity
	out []byte // encoded block

	wroteHeader bool
	blocks      int
	written     int64
	err         error
}

// NewWriter returns a Writer that writes a frame to dst.
func NewWriter(dst io.Writer, opt WriterOptions) (*Writer, error) {
	opt.setDefaults()
	ctx, err := NewCompressor(Config{
		Size:            opt.Size,
		BlockChecksum:   opt.BlockChecksum,
		ContentChecksum: !opt.NoContentChecksum,
		Level:           opt.Level,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init")
	}
	return &Writer{
		dst: dst,
		ctx: ctx,
		lg:  opt.Logger,
		buf: make([]byte, 0, ctx.BlockCapacity()),
		out: make([]byte, ctx.MaxBlockSize()),
	}, nil
}

// Blocks returns the number of blocks written so far.
func (w *Writer) Blocks() int { return w.blocks }

// Written returns the number of bytes written to the destination so far.
func (w *Writer) Written() int64 { return w.written }

func (w *Writer) write(p []byte) error {
	n, err := w.dst.Write(p)
	w.written += int64(n)
	return err
}

func (w *Writer) writeHeader() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	h := w.ctx.Header()
	if err := w.write(h[:]); err != nil {
		return errors.Wrap(err, "write header")
	}
	info := w.ctx.Info()
	w.lg.Debug("Frame header written",
		zap.Stringer("block_size", info.Size),
		zap.Bool("block_checksum", info.BlockChecksum),
		zap.Bool("content_checksum", info.ContentChecksum),
		zap.Int("level", w.ctx.Level()),
	)
	return nil
}

func (w *Writer) flushBlock() error {
	if err := w.writeHeader(); err != nil {
		return err
	}
	n, err := w.ctx.CompressBlock(w.out, w.buf)
	if err != nil {
		return errors.Wrapf(err, "block %d", w.blocks)
	}
	if ce := w.lg.Check(zap.DebugLevel, "Block stored uncompressed"); ce != nil {
		if size, compressed, _ := BlockLength(bin.Uint32(w.out)); !compressed {
			ce.Write(zap.Int("block", w.blocks), zap.Int("size", size))
		}
	}
	if err := w.write(w.out[:n]); err != nil {
		return errors.Wrapf(err, "write block %d", w.blocks)
	}
	w.blocks++
	w.buf = w.buf[:0]
	return nil
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.ctx == nil {
		return 0, ErrClosed
	}
	if w.err != nil {
		return 0, w.err
	}
	var written int
	for len(p) > 0 {
		n := copy(w.buf[len(w.buf):cap(w.buf)], p)
		w.buf = w.buf[:len(w.buf)+n]
		p = p[n:]
		written += n
		if len(w.buf) == cap(w.buf) {
			if err := w.flushBlock(); err != nil {
				w.err = err
				return written, err
			}
		}
	}
	return written, nil
}

// ReadFrom implements io.ReaderFrom.
func (w *Writer) ReadFrom(r io.Reader) (int64, error) {
	if w.ctx == nil {
		return 0, ErrClosed
	}
	if w.err != nil {
		return 0, w.err
	}
	var total int64
	for {
		n, err := r.Read(w.buf[len(w.buf):cap(w.buf)])
		w.buf = w.buf[:len(w.buf)+n]
		total += int64(n)
		if len(w.buf) == cap(w.buf) {
			if ferr := w.flushBlock(); ferr != nil {
				w.err = ferr
				return total, ferr
			}
		}
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}

// Close writes any buffered data and the end of the frame. It does not
// close the underlying writer.
func (w *Writer) Close() (err error) {
	if w.ctx == nil {
		return ErrClosed
	}
	defer func() {
		multierr.AppendInto(&err, w.ctx.Close())
		w.ctx = nil
	}()
	if w.err != nil {
		return w.err
	}

	if err := w.writeHeader(); err != nil {
		return err
	}
	if len(w.buf) > 0 {
		if err := w.flushBlock(); err != nil {
			return err
		}
	}

	var trailer [TerminatorSize + TrailerSize]byte
	n, err := w.ctx.Finish(trailer[:])
	if err != nil {
		return errors.Wrap(err, "finish")
	}
	if err := w.write(trailer[:n]); err != nil {
		return errors.Wrap(err, "write trailer")
	}
	w.lg.Debug("Frame finished",
		zap.Int("blocks", w.blocks),
		zap.Int64("written", w.written),
	)
	return nil
}
