package lz4frame

import (
	"fmt"
	"testing"

	"github.com/pierrec/lz4/v4"
	"github.com/pierrec/xxHash/xxHash32"
	"github.com/stretchr/testify/require"
)

func descriptors() []Descriptor {
	var out []Descriptor
	for _, s := range BlockSizeValues() {
		for _, bc := range []bool{false, true} {
			for _, cc := range []bool{false, true} {
				out = append(out, Descriptor{Size: s, BlockChecksum: bc, ContentChecksum: cc})
			}
		}
	}
	return out
}

func (d Descriptor) String() string {
	return fmt.Sprintf("%s/block=%v/content=%v", d.Size, d.BlockChecksum, d.ContentChecksum)
}

func TestBlockSize(t *testing.T) {
	for s, want := range map[BlockSize]int{
		Block64KB:  64 * 1024,
		Block256KB: 256 * 1024,
		Block1MB:   1024 * 1024,
		Block4MB:   4 * 1024 * 1024,
	} {
		require.Equal(t, want, s.Capacity(), s)
	}

	s, err := BlockSizeString("1MB")
	require.NoError(t, err)
	require.Equal(t, Block1MB, s)
	require.Equal(t, "256kb", Block256KB.String())

	_, err = BlockSizeString("2mb")
	require.Error(t, err)
	require.False(t, BlockSize(4).IsABlockSize())
}

func TestHeaderBijection(t *testing.T) {
	seen := map[Header]Descriptor{}
	for _, d := range descriptors() {
		h := Construct(d)
		if prev, ok := seen[h]; ok {
			t.Fatalf("%s and %s share header %x", prev, d, h)
		}
		seen[h] = d

		info, ok := Recognize(h[:])
		require.True(t, ok, d)
		require.Equal(t, d, info.Descriptor)
		require.Equal(t, h, info.Header)
		require.Equal(t, d.Size.Capacity(), info.BlockCapacity)
		require.Equal(t, lz4.CompressBlockBound(d.Size.Capacity()), info.CompressBound)
	}
	require.Len(t, seen, 16)
}

func TestHeaderDescriptorChecksum(t *testing.T) {
	for _, d := range descriptors() {
		h := Construct(d)
		require.Equal(t, magic[:], h[:4])
		require.Equal(t, byte(xxHash32.Checksum(h[4:6], 0)>>8), h[6], d)

		flg := byte(0x60)
		if d.BlockChecksum {
			flg |= 0x10
		}
		if d.ContentChecksum {
			flg |= 0x04
		}
		require.Equal(t, flg, h[4], d)
		require.Equal(t, byte(0x40+0x10*int(d.Size)), h[5], d)
	}
}

func TestConstruct(t *testing.T) {
	h := Construct(Descriptor{Size: Block64KB, ContentChecksum: true})
	require.Equal(t, Header{0x04, 0x22, 0x4d, 0x18, 0x64, 0x40, 0xa7}, h)

	h = Construct(Descriptor{Size: Block4MB, BlockChecksum: true, ContentChecksum: true})
	require.Equal(t, Header{0x04, 0x22, 0x4d, 0x18, 0x74, 0x70, 0x8e}, h)
}

func TestRecognizeRejects(t *testing.T) {
	h := Construct(Descriptor{Size: Block256KB})
	for _, b := range [][]byte{
		nil,
		h[:6],
		append(h[:], 0),
		{0x04, 0x22, 0x4d, 0x19, 0x60, 0x50, 0xfb},
		{0x04, 0x22, 0x4d, 0x18, 0x60, 0x80, 0xfb},
		// Valid LZ4 frame descriptor with dependent blocks.
		{0x04, 0x22, 0x4d, 0x18, 0x44, 0x70, 0x1d},
	} {
		_, ok := Recognize(b)
		require.False(t, ok, "%x", b)
	}

	table := map[Header]bool{}
	for _, d := range descriptors() {
		table[Construct(d)] = true
	}
	for _, d := range descriptors() {
		orig := Construct(d)
		for i := range orig {
			for v := 0; v < 256; v++ {
				if byte(v) == orig[i] {
					continue
				}
				m := orig
				m[i] = byte(v)
				_, ok := Recognize(m[:])
				require.Equal(t, table[m], ok, "%x", m)
			}
		}
	}
}
