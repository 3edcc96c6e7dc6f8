package sprite

import (
	"bytes"
	"encoding/binary"
	"image"
	"io"
)

// Header is the fixed part of a sprite file.
type Header struct {
	Width       int
	FrameHeight int
	Frames      int
	Mode        Mode
	Hitbox      image.Rectangle

	// Offsets holds, for every frame or subtile, the position of its first
	// line in the blit stream.
	Offsets []int

	// Couples is the pair palette of a Couples sprite, each entry being two
	// 16-bit colors with the first pixel in the low half.
	Couples []uint32
}

type fileHeader struct {
	Magic       uint16
	Width       uint16
	FrameHeight uint16
	Frames      uint8
	Mode        uint8
	Hitbox      [4]uint16
}

type encoder struct {
	w io.Writer
}

func (e *encoder) encode(h *Header, stream []byte) error {
	b := new(bytes.Buffer)

	fh := fileHeader{
		Magic:       magic,
		Width:       uint16(h.Width),
		FrameHeight: uint16(h.FrameHeight),
		Frames:      uint8(h.Frames),
		Mode:        uint8(h.Mode),
		Hitbox: [4]uint16{
			uint16(h.Hitbox.Min.X), uint16(h.Hitbox.Min.Y),
			uint16(h.Hitbox.Max.X), uint16(h.Hitbox.Max.Y),
		},
	}
	if err := binary.Write(b, binary.LittleEndian, &fh); err != nil {
		return err
	}

	offsets := make([]uint16, len(h.Offsets))
	for i, o := range h.Offsets {
		offsets[i] = uint16(o)
	}
	if err := binary.Write(b, binary.LittleEndian, offsets); err != nil {
		return err
	}

	if h.Mode == Couples {
		if err := binary.Write(b, binary.LittleEndian, uint32(len(h.Couples))); err != nil {
			return err
		}
		if err := binary.Write(b, binary.LittleEndian, h.Couples); err != nil {
			return err
		}
	}

	b.Write(stream)

	// Only write once everything is encoded so a failure leaves nothing
	// behind
	_, err := e.w.Write(b.Bytes())
	return err
}

func checkHitbox(r image.Rectangle) error {
	for _, v := range []int{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y} {
		if v < 0 || v > maxDimension {
			return formatError(errHitbox, "%v", r)
		}
	}
	return nil
}

func build(frames []image.Image, o *Options) (*Header, []byte, *Stats, error) {
	opts := o.withDefaults()

	src, err := loadFrames(frames)
	if err != nil {
		return nil, nil, nil, err
	}
	size := src[0].Bounds().Size()

	hitbox := opts.Hitbox
	if hitbox.Empty() {
		hitbox = image.Rect(0, 0, size.X, size.Y)
	}
	if err := checkHitbox(hitbox); err != nil {
		return nil, nil, nil, err
	}

	pieceHeight := size.Y
	pieces := src
	if opts.SubtileHeight > 0 {
		if size.Y%opts.SubtileHeight != 0 {
			return nil, nil, nil, formatError(errSubtileHeight, "%d lines in strips of %d", size.Y, opts.SubtileHeight)
		}
		pieceHeight = opts.SubtileHeight
		pieces = cutFrames(src, pieceHeight)
	}

	unique, index := dedupFrames(pieces)
	canvas := stackFrames(unique)

	runs, err := segmentLines(canvas)
	if err != nil {
		return nil, nil, nil, err
	}

	pm, err := newPixelMode(opts, runs)
	if err != nil {
		return nil, nil, nil, err
	}

	values, err := encodeRuns(pm, runs)
	if err != nil {
		return nil, nil, nil, err
	}

	blits := packRuns(values, opts.MinFill, pm.pixelsPerValue())

	stats := &Stats{
		Frames: len(pieces),
		Unique: len(unique),
		Pixels: canvas.Bounds().Dx() * canvas.Bounds().Dy(),
	}
	stream, lines := encodeStream(blits, pm.valueSize(), opts.MinMatch, stats)

	h := &Header{
		Width:       size.X,
		FrameHeight: size.Y,
		Frames:      len(src),
		Mode:        opts.Mode,
		Hitbox:      hitbox,
		Offsets:     make([]int, len(index)),
	}
	for i, u := range index {
		offset := lines[u*pieceHeight]
		if offset > maxOffset {
			return nil, nil, nil, formatError(errOffsetOverflow, "frame %d at offset %d", i, offset)
		}
		h.Offsets[i] = offset
	}
	if cm, ok := pm.(*couplesMode); ok {
		h.Couples = cm.entries
	}

	return h, stream, stats, nil
}

// Encode writes the frames to w as one sprite. Nothing is written if the
// frames cannot be encoded.
func Encode(w io.Writer, frames []image.Image, o *Options) error {
	_, err := EncodeWithStats(w, frames, o)
	return err
}

// EncodeWithStats is like Encode and also returns how the blit stream was
// built.
func EncodeWithStats(w io.Writer, frames []image.Image, o *Options) (*Stats, error) {
	h, stream, stats, err := build(frames, o)
	if err != nil {
		return nil, err
	}

	e := encoder{w: w}
	if err := e.encode(h, stream); err != nil {
		return nil, err
	}

	return stats, nil
}
