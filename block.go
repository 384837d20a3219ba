package lz4frame

import (
	"github.com/go-faster/errors"
	"github.com/pierrec/lz4/v4"
)

const (
	// storedFlag marks a block length field whose payload is not compressed.
	storedFlag = 1 << 31
	lengthMask = storedFlag - 1

	// TerminatorSize is the size of the end-of-frame marker.
	TerminatorSize = 4
	// TrailerSize is the size of the content checksum after the terminator.
	TrailerSize = 4
)

// BlockLength decodes a block length field. end is true for the frame
// terminator; otherwise size is the length of the payload that follows and
// compressed reports whether it must be decoded.
func BlockLength(field uint32) (size int, compressed, end bool) {
	if field == 0 {
		return 0, false, true
	}
	return int(field & lengthMask), field&storedFlag == 0, false
}

// CompressBlock encodes src, which must not exceed BlockCapacity bytes, as
// one framed block into dst and returns the number of bytes written.
//
// If compression does not make the block smaller, src is stored verbatim.
// A dst of MaxBlockSize bytes is always large enough.
func (c *Context) CompressBlock(dst, src []byte) (int, error) {
	if err := c.check(true); err != nil {
		return 0, err
	}
	if len(src) > c.info.BlockCapacity {
		return 0, errors.Wrapf(ErrBlockTooLarge, "%d > %d", len(src), c.info.BlockCapacity)
	}
	if len(dst) < c.blockHeaderSize {
		return 0, errors.Wrap(ErrShortBuffer, "block header")
	}

	payload := dst[4 : len(dst)-(c.blockHeaderSize-4)]
	c.eng.reset()
	c.eng.attachDictionary(nil)
	n := c.eng.compress(payload, src)

	// Ties go to the stored form: the flag bit, not the size, tells the
	// reader whether to decode.
	if n == 0 || n >= len(src) {
		if len(payload) < len(src) {
			return 0, errors.Wrapf(ErrShortBuffer, "stored block needs %d bytes", len(src)+c.blockHeaderSize)
		}
		n = copy(payload, src)
		bin.PutUint32(dst, uint32(n)|storedFlag)
	} else {
		bin.PutUint32(dst, uint32(n))
	}

	if c.info.BlockChecksum {
		bin.PutUint32(dst[4+n:], checksum(dst[4:4+n]))
	}
	c.content.update(src)
	return n + c.blockHeaderSize, nil
}

// verify checks and strips the block checksum from src if the frame has
// block checksums.
func (c *Context) verify(src []byte) ([]byte, error) {
	if !c.info.BlockChecksum {
		return src, nil
	}
	if len(src) < 4 {
		return nil, errors.Wrap(ErrBlockChecksum, "block shorter than checksum")
	}
	end := len(src) - 4
	if checksum(src[:end]) != bin.Uint32(src[end:]) {
		return nil, ErrBlockChecksum
	}
	return src[:end], nil
}

func (c *Context) decode(dst, src []byte, compressed bool) (int, error) {
	src, err := c.verify(src)
	if err != nil {
		return 0, err
	}

	var n int
	if compressed {
		n, err = lz4.UncompressBlock(src, dst)
		if err != nil {
			return 0, errors.Wrap(err, "decode block")
		}
	} else {
		if len(dst) < len(src) {
			return 0, errors.Wrapf(ErrShortBuffer, "stored block of %d bytes", len(src))
		}
		n = copy(dst, src)
	}

	c.content.update(dst[:n])
	return n, nil
}

// Decompress decodes one block into dst and returns the decompressed size.
//
// src is the payload that follows the block length field, including the
// block checksum if the frame has one. compressed is false when the length
// field has the stored flag set.
func (c *Context) Decompress(dst, src []byte, compressed bool) (int, error) {
	if err := c.check(false); err != nil {
		return 0, err
	}
	return c.decode(dst, src, compressed)
}

// Skip validates a block and advances the content checksum past it without
// returning its contents. scratch must be large enough for the decompressed
// block; the content checksum needs the decoded bytes, so Skip costs as
// much as Decompress.
func (c *Context) Skip(scratch, src []byte, compressed bool) error {
	if err := c.check(false); err != nil {
		return err
	}
	_, err := c.decode(scratch, src, compressed)
	return err
}

// Finish ends the frame.
//
// When compressing, Finish writes the terminator and, if enabled, the
// content checksum to buf and returns the number of bytes written.
//
// When decompressing, buf must hold the content checksum that follows the
// terminator if the frame has one. Finish compares it against the data seen
// so far and returns 0 on success.
//
// A frame whose content checksum is never checked by Finish is not
// verified end to end.
func (c *Context) Finish(buf []byte) (int, error) {
	switch c.state {
	case stateClosed:
		return 0, ErrClosed
	case stateFinished:
		return 0, ErrFinished
	}

	if c.Compressing() {
		n := TerminatorSize
		if c.content.enabled() {
			n += TrailerSize
		}
		if len(buf) < n {
			return 0, errors.Wrap(ErrShortBuffer, "trailer")
		}
		bin.PutUint32(buf, 0)
		if c.content.enabled() {
			bin.PutUint32(buf[TerminatorSize:], c.content.sum())
		}
		c.state = stateFinished
		return n, nil
	}

	if c.content.enabled() {
		if len(buf) < TrailerSize {
			return 0, errors.Wrap(ErrShortBuffer, "content checksum")
		}
		if got, want := c.content.sum(), bin.Uint32(buf); got != want {
			return 0, errors.Wrapf(ErrContentChecksum, "got %08x, want %08x", got, want)
		}
	}
	c.state = stateFinished
	return 0, nil
}
