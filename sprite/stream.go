package sprite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

var codeNames = [4]string{"skip", "fill", "data", "ref."}

// Stats describes how the blit stream of a sprite was built.
type Stats struct {
	Lines  int
	Pixels int
	Size   int

	Blits  [4]int
	Bytes  [4]int
	Coded  [4]int
	Frames int
	Unique int
}

// BitsPerPixel is the average stream size per canvas pixel.
func (s *Stats) BitsPerPixel() float64 {
	if s.Pixels == 0 {
		return 0
	}
	return float64(8*s.Size) / float64(s.Pixels)
}

func (s *Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d frames, %d unique, %d lines, %d bytes, %d pixels, %.1f bpp", s.Frames, s.Unique, s.Lines, s.Size, s.Pixels, s.BitsPerPixel())
	for i, name := range codeNames {
		var bpp float64
		if s.Coded[i] > 0 {
			bpp = float64(8*s.Bytes[i]) / float64(s.Coded[i])
		}
		fmt.Fprintf(&b, "\n  %s : %4d blits, %4d bytes, %4d pixels, %.3f bpp", name, s.Blits[i], s.Bytes[i], s.Coded[i], bpp)
	}
	return b.String()
}

// appendHeader writes a blit header and its length extension bytes.
func appendHeader(b []byte, code int, eol bool, n int) []byte {
	h := byte(code<<6) | byte(min(n, lengthMask))
	if eol {
		h |= eolFlag
	}
	b = append(b, h)
	if n >= lengthMask {
		n -= lengthMask
		for n >= 0xff {
			b = append(b, 0xff)
			n -= 0xff
		}
		b = append(b, byte(n))
	}
	return b
}

func appendValues(b []byte, size int, vals ...uint16) []byte {
	for _, v := range vals {
		if size == 2 {
			b = binary.LittleEndian.AppendUint16(b, v)
		} else {
			b = append(b, byte(v))
		}
	}
	return b
}

// encodeStream serializes the blits. It returns the stream and the offset
// at which every line starts.
func encodeStream(blits []blit, valueSize, minMatch int, stats *Stats) ([]byte, []int) {
	var s []byte
	lines := []int{0}

	for _, bl := range blits {
		start := len(s)
		code := bl.code

		var payload []byte
		switch bl.code {
		case codeFill:
			payload = appendValues(nil, valueSize, bl.fill)
		case codeData:
			payload = appendValues(nil, valueSize, bl.data...)
		}

		s = appendHeader(s, code, bl.eol, bl.n)

		if code == codeData && len(payload) > minMatch {
			// Search before the header just written
			if i := bytes.LastIndex(s[:start], payload); i >= 0 {
				if distance := len(s) - i; distance <= maxDistance {
					s[start] |= codeRef << 6
					payload = binary.LittleEndian.AppendUint16(nil, uint16(distance))
					code = codeRef
				}
			}
		}

		s = append(s, payload...)

		stats.Blits[code]++
		stats.Bytes[code] += len(s) - start
		stats.Coded[code] += bl.n

		if bl.eol {
			lines = append(lines, len(s))
		}
	}

	stats.Lines = len(lines) - 1
	stats.Size = len(s)

	return s, lines[:len(lines)-1]
}
