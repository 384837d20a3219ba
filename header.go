package lz4frame

//go:generate go run github.com/dmarkham/enumer@v1.5.9 -type BlockSize -trimprefix Block -transform lower -output blocksize_enum.go

// A BlockSize is the maximum decompressed size of each block in a frame.
type BlockSize int

const (
	Block64KB BlockSize = iota
	Block256KB
	Block1MB
	Block4MB
)

// Capacity returns the number of decompressed bytes a block may hold.
func (s BlockSize) Capacity() int {
	return 64 << 10 << (2 * uint(s))
}

// HeaderSize is the length of a frame header.
const HeaderSize = 7

// A Header is the fixed preamble of a frame: the LZ4 frame magic number
// followed by the FLG, BD and header checksum bytes.
type Header [HeaderSize]byte

// A Descriptor is the part of a stream's configuration that is encoded in
// its header.
type Descriptor struct {
	Size            BlockSize
	BlockChecksum   bool
	ContentChecksum bool
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

var magic = [4]byte{0x04, 0x22, 0x4d, 0x18}

// headers is indexed by [block size][block checksum][content checksum].
// The last byte of each entry is the second byte of xxh32(FLG, BD).
var headers = [4][2][2]Header{
	Block64KB: {
		{
			{0x04, 0x22, 0x4d, 0x18, 0x60, 0x40, 0x82},
			{0x04, 0x22, 0x4d, 0x18, 0x64, 0x40, 0xa7},
		},
		{
			{0x04, 0x22, 0x4d, 0x18, 0x70, 0x40, 0xad},
			{0x04, 0x22, 0x4d, 0x18, 0x74, 0x40, 0xbd},
		},
	},
	Block256KB: {
		{
			{0x04, 0x22, 0x4d, 0x18, 0x60, 0x50, 0xfb},
			{0x04, 0x22, 0x4d, 0x18, 0x64, 0x50, 0x08},
		},
		{
			{0x04, 0x22, 0x4d, 0x18, 0x70, 0x50, 0x84},
			{0x04, 0x22, 0x4d, 0x18, 0x74, 0x50, 0xff},
		},
	},
	Block1MB: {
		{
			{0x04, 0x22, 0x4d, 0x18, 0x60, 0x60, 0x51},
			{0x04, 0x22, 0x4d, 0x18, 0x64, 0x60, 0x85},
		},
		{
			{0x04, 0x22, 0x4d, 0x18, 0x70, 0x60, 0x33},
			{0x04, 0x22, 0x4d, 0x18, 0x74, 0x60, 0xd9},
		},
	},
	Block4MB: {
		{
			{0x04, 0x22, 0x4d, 0x18, 0x60, 0x70, 0x73},
			{0x04, 0x22, 0x4d, 0x18, 0x64, 0x70, 0xb9},
		},
		{
			{0x04, 0x22, 0x4d, 0x18, 0x70, 0x70, 0x72},
			{0x04, 0x22, 0x4d, 0x18, 0x74, 0x70, 0x8e},
		},
	},
}

// Construct returns the header for d. It panics if d.Size is not one of
// the defined block sizes.
func Construct(d Descriptor) Header {
	return headers[d.Size][b2i(d.BlockChecksum)][b2i(d.ContentChecksum)]
}

// Info describes a recognized header.
type Info struct {
	Descriptor

	Header Header

	// BlockCapacity is the maximum decompressed size of a block.
	BlockCapacity int

	// CompressBound is the largest compressed payload a block of
	// BlockCapacity bytes can produce.
	CompressBound int
}

var bounds [4]int

func init() {
	for _, s := range BlockSizeValues() {
		bounds[s] = CompressBound(s.Capacity())
	}
}

func newInfo(d Descriptor) Info {
	return Info{
		Descriptor:    d,
		Header:        Construct(d),
		BlockCapacity: d.Size.Capacity(),
		CompressBound: bounds[d.Size],
	}
}

// Recognize looks b up in the header table. Only the 16 canonical headers
// are accepted; anything else, including a buffer that is not exactly
// HeaderSize bytes long, reports false.
func Recognize(b []byte) (Info, bool) {
	if len(b) != HeaderSize {
		return Info{}, false
	}
	if b[0] != magic[0] || b[1] != magic[1] || b[2] != magic[2] || b[3] != magic[3] {
		return Info{}, false
	}

	var size BlockSize
	switch b[5] {
	case 0x40:
		size = Block64KB
	case 0x50:
		size = Block256KB
	case 0x60:
		size = Block1MB
	case 0x70:
		size = Block4MB
	default:
		return Info{}, false
	}

	for bc := 0; bc < 2; bc++ {
		for cc := 0; cc < 2; cc++ {
			h := &headers[size][bc][cc]
			if b[4] == h[4] && b[6] == h[6] {
				return newInfo(Descriptor{
					Size:            size,
					BlockChecksum:   bc == 1,
					ContentChecksum: cc == 1,
				}), true
			}
		}
	}
	return Info{}, false
}
