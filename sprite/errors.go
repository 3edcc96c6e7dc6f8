package sprite

import (
	"errors"
	"fmt"
)

// ErrPaletteMiss is wrapped by the FormatError returned when an Indexed8
// sprite uses a color missing from the palette.
var ErrPaletteMiss = errors.New("color not in palette")

var (
	errNoFrames       = errors.New("no frames")
	errTooManyFrames  = errors.New("more than 255 frames")
	errFrameSize      = errors.New("frames are not all the same size")
	errEmptyFrame     = errors.New("empty frame")
	errTooLarge       = errors.New("frame too large")
	errSubtileHeight  = errors.New("frame height is not a multiple of the subtile height")
	errHitbox         = errors.New("hitbox out of range")
	errPaletteSize    = errors.New("palette has more than 256 colors")
	errLineLength     = errors.New("line runs do not add up to the width")
	errOffsetOverflow = errors.New("blit stream too large for 16-bit offsets")
	errUnknownMode    = errors.New("unknown mode")
)

// A FormatError reports that the frames handed to the encoder cannot be
// stored as a sprite.
type FormatError struct {
	Msg string
	Err error
}

func (e *FormatError) Error() string {
	if e.Msg == "" {
		return "sprite: " + e.Err.Error()
	}
	return "sprite: " + e.Msg + ": " + e.Err.Error()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func formatError(err error, format string, a ...interface{}) error {
	return &FormatError{Msg: fmt.Sprintf(format, a...), Err: err}
}

// A CorruptStreamError reports invalid sprite data found at Offset bytes
// from the start of the file.
type CorruptStreamError struct {
	Offset int
	Msg    string
}

func (e *CorruptStreamError) Error() string {
	return fmt.Sprintf("sprite: corrupt stream at offset %d: %s", e.Offset, e.Msg)
}
