package sprite

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"
	"io"
)

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// A blitHeader is a decoded blit header, lengths in pixels.
type blitHeader struct {
	code int
	n    int
	eol  bool
}

// readBlit decodes the blit header at pos and returns it with the position
// of its payload.
func readBlit(b []byte, pos int) (blitHeader, int, error) {
	if pos < 0 || pos >= len(b) {
		return blitHeader{}, pos, io.ErrUnexpectedEOF
	}
	h := b[pos]
	pos++

	bh := blitHeader{
		code: int(h >> 6),
		n:    int(h & lengthMask),
		eol:  h&eolFlag != 0,
	}
	if bh.n == lengthMask {
		for {
			if pos >= len(b) {
				return blitHeader{}, pos, io.ErrUnexpectedEOF
			}
			c := b[pos]
			pos++
			bh.n += int(c)
			if c != 0xff {
				break
			}
		}
	}

	return bh, pos, nil
}

// Sprite is a decoded sprite file.
type Sprite struct {
	Header

	// Frames holds every frame in file order, duplicates included.
	Frames []*image.NRGBA
}

type decoder struct {
	r    io.Reader
	opts DecodeOptions

	hdr    Header
	pm     pixelMode
	base   int
	stream []byte

	// Enough to hold the fixed header
	tmp [headerSize]byte
}

func (d *decoder) corrupt(offset int, format string, a ...interface{}) error {
	return &CorruptStreamError{Offset: offset, Msg: fmt.Sprintf(format, a...)}
}

func (d *decoder) readHeader() error {
	if err := readFull(d.r, d.tmp[:]); err != nil {
		return d.corrupt(0, "truncated header")
	}

	var fh fileHeader
	// Cannot fail, tmp is exactly the size of fileHeader
	_ = binary.Read(bytes.NewReader(d.tmp[:]), binary.LittleEndian, &fh)

	if fh.Magic != magic {
		return d.corrupt(0, "bad magic %#04x", fh.Magic)
	}

	d.hdr = Header{
		Width:       int(fh.Width),
		FrameHeight: int(fh.FrameHeight),
		Frames:      int(fh.Frames),
		Mode:        Mode(fh.Mode),
		Hitbox:      image.Rect(int(fh.Hitbox[0]), int(fh.Hitbox[1]), int(fh.Hitbox[2]), int(fh.Hitbox[3])),
	}

	if d.hdr.Width == 0 || d.hdr.FrameHeight == 0 {
		return d.corrupt(2, "empty %dx%d frames", d.hdr.Width, d.hdr.FrameHeight)
	}

	if d.hdr.Mode > Couples {
		return d.corrupt(7, "unknown datacode %d", fh.Mode)
	}

	entries := d.hdr.Frames
	if s := d.opts.SubtileHeight; s > 0 {
		if d.hdr.FrameHeight%s != 0 {
			return d.corrupt(4, "frame height %d is not a multiple of %d", d.hdr.FrameHeight, s)
		}
		entries *= d.hdr.FrameHeight / s
	}

	offsets := make([]uint16, entries)
	if err := binary.Read(d.r, binary.LittleEndian, offsets); err != nil {
		return d.corrupt(headerSize, "truncated frame index")
	}
	d.hdr.Offsets = make([]int, entries)
	for i, o := range offsets {
		d.hdr.Offsets[i] = int(o)
	}
	d.base = headerSize + 2*entries

	if d.hdr.Mode == Couples {
		var n uint32
		if err := binary.Read(d.r, binary.LittleEndian, &n); err != nil {
			return d.corrupt(d.base, "truncated palette")
		}
		if n > maxPalette {
			return d.corrupt(d.base, "palette of %d couples", n)
		}
		d.hdr.Couples = make([]uint32, n)
		if err := binary.Read(d.r, binary.LittleEndian, d.hdr.Couples); err != nil {
			return d.corrupt(d.base+4, "truncated palette")
		}
		d.base += 4 + 4*int(n)
	}

	return nil
}

func (d *decoder) readPixelMode() error {
	switch d.hdr.Mode {
	case Direct16:
		d.pm = direct16Mode{}
	case Indexed8:
		pm, err := newIndexed8Mode(d.opts.Palette)
		if err != nil {
			return err
		}
		d.pm = pm
	case Couples:
		d.pm = &couplesMode{entries: d.hdr.Couples}
	}
	return nil
}

// Size in bytes of the data payload holding n pixels.
func (d *decoder) payloadSize(n int) int {
	ppv := d.pm.pixelsPerValue()
	return (n + ppv - 1) / ppv * d.pm.valueSize()
}

// Write n pixels worth of values read from the stream at pos, returning the
// position after them.
func (d *decoder) readPixels(m *image.NRGBA, x, y, n, pos int) (int, error) {
	ppv, size := d.pm.pixelsPerValue(), d.pm.valueSize()
	count := (n + ppv - 1) / ppv
	if pos < 0 || pos+count*size > len(d.stream) {
		return pos, d.corrupt(d.base+pos, "truncated data")
	}

	for i := 0; i < count; i++ {
		var v uint16
		if size == 2 {
			v = binary.LittleEndian.Uint16(d.stream[pos:])
		} else {
			v = uint16(d.stream[pos])
		}
		a, b, ok := d.pm.decodeValue(v)
		if !ok {
			return pos, d.corrupt(d.base+pos, "palette index %d out of range", v)
		}
		pos += size

		m.SetNRGBA(x+i*ppv, y, a)
		if ppv == 2 && i*2+1 < n {
			m.SetNRGBA(x+i*2+1, y, b)
		}
	}

	return pos, nil
}

// Decode one line starting at pos and return where the next one starts.
func (d *decoder) decodeLine(m *image.NRGBA, y, pos int) (int, error) {
	for x := 0; ; {
		start := pos
		bh, next, err := readBlit(d.stream, pos)
		if err != nil {
			return pos, d.corrupt(d.base+pos, "truncated blit header")
		}
		pos = next

		if x+bh.n > d.hdr.Width {
			return pos, d.corrupt(d.base+start, "blit of %d pixels overruns line at %d", bh.n, x)
		}

		switch bh.code {
		case codeSkip:
		case codeFill:
			size := d.pm.valueSize()
			if pos+size > len(d.stream) {
				return pos, d.corrupt(d.base+pos, "truncated fill")
			}
			var v uint16
			if size == 2 {
				v = binary.LittleEndian.Uint16(d.stream[pos:])
			} else {
				v = uint16(d.stream[pos])
			}
			pos += size
			a, b, ok := d.pm.decodeValue(v)
			if !ok {
				return pos, d.corrupt(d.base+pos-size, "palette index %d out of range", v)
			}
			for i := 0; i < bh.n; i++ {
				c := a
				if d.pm.pixelsPerValue() == 2 && i%2 == 1 {
					c = b
				}
				m.SetNRGBA(x+i, y, c)
			}
		case codeData:
			if pos, err = d.readPixels(m, x, y, bh.n, pos); err != nil {
				return pos, err
			}
		case codeRef:
			if pos+2 > len(d.stream) {
				return pos, d.corrupt(d.base+pos, "truncated back reference")
			}
			src := pos - int(binary.LittleEndian.Uint16(d.stream[pos:]))
			// Only ever points at bytes before this blit
			if src < 0 || src+d.payloadSize(bh.n) > start {
				return pos, d.corrupt(d.base+pos, "back reference to %d", src)
			}
			if _, err := d.readPixels(m, x, y, bh.n, src); err != nil {
				return pos, err
			}
			pos += 2
		}

		if bh.eol {
			return pos, nil
		}
		x += bh.n
	}
}

func (d *decoder) decodeFrames() ([]*image.NRGBA, error) {
	pieceHeight := d.hdr.FrameHeight
	if d.opts.SubtileHeight > 0 {
		pieceHeight = d.opts.SubtileHeight
	}
	pieces := d.hdr.FrameHeight / pieceHeight

	frames := make([]*image.NRGBA, d.hdr.Frames)
	for f := range frames {
		m := image.NewNRGBA(image.Rect(0, 0, d.hdr.Width, d.hdr.FrameHeight))
		for p := 0; p < pieces; p++ {
			i := f*pieces + p
			pos := d.hdr.Offsets[i]
			if pos >= len(d.stream) {
				return nil, d.corrupt(headerSize+2*i, "frame offset %d beyond stream", pos)
			}
			for y := p * pieceHeight; y < (p+1)*pieceHeight; y++ {
				var err error
				if pos, err = d.decodeLine(m, y, pos); err != nil {
					return nil, err
				}
			}
		}
		frames[f] = m
	}

	return frames, nil
}

func (d *decoder) decode(r io.Reader, configOnly bool) error {
	d.r = r

	if err := d.readHeader(); err != nil {
		return err
	}

	if configOnly {
		return nil
	}

	if err := d.readPixelMode(); err != nil {
		return err
	}

	var err error
	if d.stream, err = io.ReadAll(r); err != nil {
		return err
	}

	return nil
}

// Decode reads a sprite from r and returns every frame.
func Decode(r io.Reader, o *DecodeOptions) (*Sprite, error) {
	d := decoder{opts: o.withDefaults()}
	if err := d.decode(r, false); err != nil {
		return nil, err
	}

	frames, err := d.decodeFrames()
	if err != nil {
		return nil, err
	}

	return &Sprite{Header: d.hdr, Frames: frames}, nil
}

// DecodeConfig returns the header of a sprite without decoding the blit
// stream.
func DecodeConfig(r io.Reader, o *DecodeOptions) (Header, error) {
	d := decoder{opts: o.withDefaults()}
	if err := d.decode(r, true); err != nil {
		return Header{}, err
	}
	return d.hdr, nil
}

// Strip stacks all frames vertically into a single image.
func (s *Sprite) Strip() *image.NRGBA {
	if len(s.Frames) == 0 {
		return image.NewNRGBA(image.Rectangle{})
	}
	return stackFrames(s.Frames)
}
