package sprite

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	transparent = color.NRGBA{}
	red         = color.NRGBA{0xff, 0x00, 0x00, 0xff}
	green       = color.NRGBA{0x00, 0xff, 0x00, 0xff}
	blue        = color.NRGBA{0x00, 0x00, 0xff, 0xff}
	white       = color.NRGBA{0xff, 0xff, 0xff, 0xff}
)

func newFrame(w, h int, f func(x, y int) color.NRGBA) *image.NRGBA {
	m := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.SetNRGBA(x, y, f(x, y))
		}
	}
	return m
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	return newFrame(w, h, func(int, int) color.NRGBA { return c })
}

func TestLoadFrames(t *testing.T) {
	tests := []struct {
		name   string
		frames []image.Image
		err    error
	}{
		{"no frames", nil, errNoFrames},
		{"empty frame", []image.Image{image.NewNRGBA(image.Rect(0, 0, 0, 4))}, errEmptyFrame},
		{"mixed sizes", []image.Image{solid(2, 2, red), solid(2, 3, red)}, errFrameSize},
		{"too many", make([]image.Image, 256), errTooManyFrames},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFrames(tt.frames)
			assert.ErrorIs(t, err, tt.err)
			var fe *FormatError
			assert.ErrorAs(t, err, &fe)
		})
	}
}

func TestLoadFramesMovesOrigin(t *testing.T) {
	m := solid(4, 4, red)
	m.SetNRGBA(2, 2, blue)
	frames, err := loadFrames([]image.Image{m.SubImage(image.Rect(2, 2, 4, 4))})
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 2, 2), frames[0].Bounds())
	assert.Equal(t, blue, frames[0].NRGBAAt(0, 0))
	assert.Equal(t, red, frames[0].NRGBAAt(1, 1))
}

func TestDedupFrames(t *testing.T) {
	a, b, c := solid(2, 2, red), solid(2, 2, blue), solid(2, 2, red)
	unique, index := dedupFrames([]*image.NRGBA{a, b, c, b})
	require.Len(t, unique, 2)
	assert.Same(t, a, unique[0])
	assert.Same(t, b, unique[1])
	assert.Equal(t, []int{0, 1, 0, 1}, index)
}

func TestCutFrames(t *testing.T) {
	m := newFrame(2, 4, func(x, y int) color.NRGBA {
		if y < 2 {
			return red
		}
		return blue
	})
	pieces := cutFrames([]*image.NRGBA{m, m}, 2)
	require.Len(t, pieces, 4)
	for i, p := range pieces {
		assert.Equal(t, image.Rect(0, 0, 2, 2), p.Bounds())
		want := red
		if i%2 == 1 {
			want = blue
		}
		assert.Equal(t, solid(2, 2, want).Pix, p.Pix)
	}

	unique, index := dedupFrames(pieces)
	assert.Len(t, unique, 2)
	assert.Equal(t, []int{0, 1, 0, 1}, index)
}

func TestStackFrames(t *testing.T) {
	canvas := stackFrames([]*image.NRGBA{solid(3, 2, red), solid(3, 2, blue)})
	assert.Equal(t, image.Rect(0, 0, 3, 4), canvas.Bounds())
	assert.Equal(t, red, canvas.NRGBAAt(2, 1))
	assert.Equal(t, blue, canvas.NRGBAAt(0, 2))
}
