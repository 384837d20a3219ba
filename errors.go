package lz4frame

import "github.com/go-faster/errors"

var (
	// ErrUnrecognizedHeader means a header is not one of the 16 frame
	// headers this package produces.
	ErrUnrecognizedHeader = errors.New("unrecognized frame header")
	// ErrInvalidBlockSize is returned for a BlockSize outside the enum.
	ErrInvalidBlockSize = errors.New("invalid block size")

	// ErrChecksum matches both ErrBlockChecksum and ErrContentChecksum.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrBlockChecksum means a block payload does not match its checksum.
	ErrBlockChecksum = &checksumError{what: "block"}
	// ErrContentChecksum means the decompressed stream does not match the
	// frame's content checksum.
	ErrContentChecksum = &checksumError{what: "content"}

	// ErrCorrupt is returned by Reader for framing violations such as a
	// block length larger than the frame allows.
	ErrCorrupt = errors.New("corrupt frame")

	// ErrShortBuffer means a caller-supplied buffer is too small.
	ErrShortBuffer = errors.New("buffer too small")
	// ErrBlockTooLarge means CompressBlock got more than one block of input.
	ErrBlockTooLarge = errors.New("block larger than frame block size")

	// ErrMode is returned when a compress operation is invoked on a
	// decompressing Context or vice versa.
	ErrMode = errors.New("operation not valid for context mode")
	// ErrFinished is returned for any block operation after Finish.
	ErrFinished = errors.New("context finished")
	// ErrClosed is returned for any operation after Close.
	ErrClosed = errors.New("context closed")
)

type checksumError struct {
	what string
}

func (e *checksumError) Error() string {
	return e.what + " checksum mismatch"
}

func (e *checksumError) Is(target error) bool {
	return target == ErrChecksum
}
