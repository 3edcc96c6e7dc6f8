/*
Package sprite implements the Bitbox sprite encoder and decoder.

A sprite file holds every frame of one animation. All frames share the same
width and height. Frames that are pixel-for-pixel identical are stored once
and the frame index simply points at the same data.

The file starts with a 16 byte header: a 0xB17B magic, the width and frame
height, the number of frames, the data code selecting how pixels are stored
and a hitbox rectangle, all little-endian. It is followed by one 16-bit
offset per frame into the blit stream, then, for couples sprites only, a
32-bit palette length and that many packed pairs of 16-bit colors.

The blit stream encodes each line of each unique frame as a series of blits.
A blit starts with a byte holding a 2-bit code, an end of line flag and a
5-bit length. A length of 31 is extended by the following bytes, added while
each byte read is 255. The code selects between skipping transparent pixels,
filling with a single value, copying literal values or copying values already
seen earlier in the stream at a given backward distance.
*/
package sprite

import (
	"fmt"
	"image"
	"image/color"
)

const (
	magic = 0xb17b

	headerSize = 16

	alphaThreshold = 127

	maxFrames    = 255
	maxDimension = 0xffff
	maxOffset    = 0xffff
	maxDistance  = 0xffff
	maxCouples   = 255
	maxPalette   = 256

	defaultMinFill  = 4
	defaultMinMatch = 4
)

// Blit codes, stored in the top two bits of a blit header.
const (
	codeSkip = iota
	codeFill
	codeData
	codeRef
)

const (
	eolFlag    = 0x20
	lengthMask = 0x1f
)

// Mode selects how pixel values are stored in the blit stream.
type Mode uint8

const (
	// Direct16 stores each pixel as a 16-bit 0RRRRRGGGGGBBBBB color.
	Direct16 Mode = iota
	// Indexed8 stores each pixel as an 8-bit index into a 256 color palette.
	Indexed8
	// Couples stores each pair of pixels as an 8-bit index into a palette
	// of pixel pairs kept in the file.
	Couples
)

func (m Mode) String() string {
	switch m {
	case Direct16:
		return "u16"
	case Indexed8:
		return "u8"
	case Couples:
		return "couples"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode returns the Mode matching one of the names returned by
// Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{Direct16, Indexed8, Couples} {
		if s == m.String() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("sprite: unknown mode %q", s)
}

// Options are the encoding parameters.
type Options struct {
	Mode Mode

	// Palette is used by Indexed8. MicroPalette is used if nil.
	Palette color.Palette

	// Hitbox is stored in the header. The whole frame is used if empty.
	Hitbox image.Rectangle

	// MinFill is the minimum number of repeated values turned into a
	// fill blit.
	MinFill int

	// MinMatch is the literal payload size in bytes that must be exceeded
	// before looking for a back reference.
	MinMatch int

	// SubtileHeight cuts each frame into strips of that many lines before
	// deduplication. Zero keeps whole frames.
	SubtileHeight int
}

func (o *Options) withDefaults() Options {
	var opts Options
	if o != nil {
		opts = *o
	}
	if opts.MinFill <= 0 {
		opts.MinFill = defaultMinFill
	}
	if opts.MinMatch <= 0 {
		opts.MinMatch = defaultMinMatch
	}
	if opts.Palette == nil {
		opts.Palette = MicroPalette
	}
	return opts
}

// DecodeOptions are the parameters that are not stored in the file.
type DecodeOptions struct {
	// Palette is used to expand Indexed8 sprites. MicroPalette is used if
	// nil.
	Palette color.Palette

	// SubtileHeight must match the value used when encoding.
	SubtileHeight int
}

func (o *DecodeOptions) withDefaults() DecodeOptions {
	var opts DecodeOptions
	if o != nil {
		opts = *o
	}
	if opts.Palette == nil {
		opts.Palette = MicroPalette
	}
	return opts
}
