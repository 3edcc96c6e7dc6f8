package sprite

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlitHeader(t *testing.T) {
	tests := []struct {
		code int
		eol  bool
		n    int
		b    []byte
	}{
		{codeSkip, true, 2, []byte{0x22}},
		{codeFill, false, 30, []byte{0x5e}},
		{codeData, false, 31, []byte{0x9f, 0x00}},
		{codeData, true, 32, []byte{0xbf, 0x01}},
		{codeRef, false, 285, []byte{0xdf, 0xfe}},
		{codeSkip, false, 286, []byte{0x1f, 0xff, 0x00}},
		{codeFill, true, 300, []byte{0x7f, 0xff, 0x0e}},
		{codeSkip, true, 31 + 255*2 + 7, []byte{0x3f, 0xff, 0xff, 0x07}},
	}

	for _, tt := range tests {
		b := appendHeader(nil, tt.code, tt.eol, tt.n)
		assert.Equal(t, tt.b, b, "length %d", tt.n)

		bh, pos, err := readBlit(b, 0)
		require.NoError(t, err)
		assert.Equal(t, blitHeader{code: tt.code, n: tt.n, eol: tt.eol}, bh)
		assert.Equal(t, len(b), pos)
	}
}

func TestReadBlitTruncated(t *testing.T) {
	for _, b := range [][]byte{{}, {0x1f}, {0x1f, 0xff}} {
		_, _, err := readBlit(b, 0)
		assert.Equal(t, io.ErrUnexpectedEOF, err)
	}
}

func TestEncodeStream(t *testing.T) {
	blits := []blit{
		{code: codeData, n: 6, data: []uint16{1, 2, 3, 4, 5, 6}, eol: true},
		{code: codeFill, n: 8, fill: 9},
		{code: codeData, n: 6, data: []uint16{1, 2, 3, 4, 5, 6}, eol: true},
		{code: codeSkip, n: 3, eol: true},
	}

	var stats Stats
	s, lines := encodeStream(blits, 1, 4, &stats)

	assert.Equal(t, []byte{
		0xa6, 1, 2, 3, 4, 5, 6,
		0x48, 9,
		0xe6, 0x09, 0x00,
		0x23,
	}, s)
	assert.Equal(t, []int{0, 7, 12}, lines)

	assert.Equal(t, 3, stats.Lines)
	assert.Equal(t, len(s), stats.Size)
	assert.Equal(t, [4]int{1, 1, 1, 1}, stats.Blits)
	assert.Equal(t, [4]int{1, 2, 7, 3}, stats.Bytes)
	assert.Equal(t, [4]int{3, 8, 6, 6}, stats.Coded)
}

func TestEncodeStreamMinMatch(t *testing.T) {
	blits := []blit{
		{code: codeData, n: 4, data: []uint16{1, 2, 3, 4}, eol: true},
		{code: codeData, n: 4, data: []uint16{1, 2, 3, 4}, eol: true},
	}

	var stats Stats
	// A 4 byte payload must exceed a minimum match of 4 bytes
	s, _ := encodeStream(blits, 1, 4, &stats)
	assert.Equal(t, []byte{0xa4, 1, 2, 3, 4, 0xa4, 1, 2, 3, 4}, s)

	// 16-bit values double the payload
	s, _ = encodeStream(blits, 2, 4, &stats)
	assert.Equal(t, []byte{0xa4, 1, 0, 2, 0, 3, 0, 4, 0, 0xe4, 0x09, 0x00}, s)
}

func TestEncodeStreamDistanceOverflow(t *testing.T) {
	far := make([]uint16, 70000)
	for i := range far {
		far[i] = uint16(i%200 + 10)
	}
	blits := []blit{
		{code: codeData, n: 5, data: []uint16{1, 2, 3, 4, 5}, eol: true},
		{code: codeData, n: len(far), data: far, eol: true},
		{code: codeData, n: 5, data: []uint16{1, 2, 3, 4, 5}, eol: true},
	}

	var stats Stats
	s, _ := encodeStream(blits, 1, 4, &stats)
	assert.Equal(t, 0, stats.Blits[codeRef])
	assert.Equal(t, []byte{0xa5, 1, 2, 3, 4, 5}, s[len(s)-6:])
}
