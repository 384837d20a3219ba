package lz4frame

import "github.com/go-faster/errors"

// Config is the configuration of a compressing Context.
type Config struct {
	Size            BlockSize
	BlockChecksum   bool
	ContentChecksum bool

	// Level selects the compressor. Levels below LevelHCMin use the fast
	// compressor; LevelHCMin through LevelHCMax use the high-compression
	// compressor with increasing effort.
	Level int
}

// Descriptor returns the part of c that is stored in the frame header.
func (c Config) Descriptor() Descriptor {
	return Descriptor{
		Size:            c.Size,
		BlockChecksum:   c.BlockChecksum,
		ContentChecksum: c.ContentChecksum,
	}
}

type ctxState byte

const (
	stateActive ctxState = iota
	stateFinished
	stateClosed
)

// A Context holds the state of one frame being compressed or decompressed.
//
// A Context is not safe for concurrent use: compression reuses one engine
// across blocks. Separate Contexts share nothing and may be used in
// parallel.
type Context struct {
	info  Info
	level int

	// eng is nil for decompressing contexts.
	eng     *engine
	content contentHash

	blockHeaderSize int
	state           ctxState
}

// NewCompressor returns a Context that compresses blocks with cfg.
func NewCompressor(cfg Config) (*Context, error) {
	if !cfg.Size.IsABlockSize() {
		return nil, errors.Wrapf(ErrInvalidBlockSize, "size %d", int(cfg.Size))
	}
	c := &Context{
		info:    newInfo(cfg.Descriptor()),
		level:   cfg.Level,
		eng:     newEngine(cfg.Level),
		content: newContentHash(cfg.ContentChecksum),
	}
	c.init()
	return c, nil
}

// NewDecompressor returns a Context for the frame that begins with header.
func NewDecompressor(header []byte) (*Context, error) {
	info, ok := Recognize(header)
	if !ok {
		return nil, errors.Wrapf(ErrUnrecognizedHeader, "header %x", header)
	}
	c := &Context{
		info:    info,
		content: newContentHash(info.ContentChecksum),
	}
	c.init()
	return c, nil
}

func (c *Context) init() {
	c.blockHeaderSize = 4
	if c.info.BlockChecksum {
		c.blockHeaderSize += 4
	}
	c.content.reset()
	c.state = stateActive
}

// Info returns the frame description.
func (c *Context) Info() Info { return c.info }

// Header returns the frame header.
func (c *Context) Header() Header { return c.info.Header }

// Level returns the compression level, or 0 for a decompressing Context.
func (c *Context) Level() int { return c.level }

// Compressing reports whether c was created by NewCompressor.
func (c *Context) Compressing() bool { return c.eng != nil }

// BlockHeaderSize is the framing overhead of each block: the length field
// plus the block checksum, if enabled.
func (c *Context) BlockHeaderSize() int { return c.blockHeaderSize }

// BlockCapacity is the maximum decompressed size of a block.
func (c *Context) BlockCapacity() int { return c.info.BlockCapacity }

// MaxBlockSize is the largest encoded block CompressBlock can produce,
// including framing. A dst of this size is always large enough.
func (c *Context) MaxBlockSize() int {
	return c.info.BlockCapacity + c.blockHeaderSize
}

// Close releases the compression engine. Any later call on c returns
// ErrClosed, including a second Close.
func (c *Context) Close() error {
	if c.state == stateClosed {
		return ErrClosed
	}
	c.state = stateClosed
	c.eng = nil
	c.content = contentHash{}
	return nil
}

// check returns an error unless c is active and in the given mode.
func (c *Context) check(compress bool) error {
	switch c.state {
	case stateClosed:
		return ErrClosed
	case stateFinished:
		return ErrFinished
	}
	if c.Compressing() != compress {
		return ErrMode
	}
	return nil
}
